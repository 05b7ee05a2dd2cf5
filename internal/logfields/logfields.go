package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyInput      = "input"
	KeyOutput     = "output"
	KeyTargetType = "target_type"
	KeyRunID      = "run_id"
	KeyCount      = "count"
	KeyPort       = "port"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Input(p string) slog.Attr         { return slog.String(KeyInput, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func TargetType(t string) slog.Attr    { return slog.String(KeyTargetType, t) }
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
