package metrics

import "time"

// Recorder defines observability hooks for planning and build runs.
// Implementations may forward to Prometheus; the NoopRecorder is the default
// when metrics are not configured (no serve mode).
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed
	SetTargetsPlanned(n int)
	IncLiveReloadConnections()
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) SetTargetsPlanned(int)              {}
func (NoopRecorder) IncLiveReloadConnections()          {}
