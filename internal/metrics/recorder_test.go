package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RecordsAllSignals(t *testing.T) {
	rec, reg := NewPrometheusRecorder(nil)

	rec.ObserveBuildDuration(250 * time.Millisecond)
	rec.IncBuildOutcome("success")
	rec.IncBuildOutcome("success")
	rec.IncBuildOutcome("warning")
	rec.SetTargetsPlanned(12)
	rec.IncLiveReloadConnections()

	require.Equal(t, float64(2), testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(rec.buildOutcome.WithLabelValues("warning")))
	require.Equal(t, float64(12), testutil.ToFloat64(rec.targetsPlanned))
	require.Equal(t, float64(1), testutil.ToFloat64(rec.lrConnections))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "md2html_build_duration_seconds")
}

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveBuildDuration(time.Second)
	rec.IncBuildOutcome("success")
	rec.SetTargetsPlanned(1)
	rec.IncLiveReloadConnections()
}
