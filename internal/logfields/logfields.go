package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPlugin     = "plugin"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyModule     = "module"
	KeyLocale     = "locale"
	KeyPath       = "path"
	KeyField      = "field"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Module(id string) slog.Attr      { return slog.String(KeyModule, id) }
func Locale(code string) slog.Attr    { return slog.String(KeyLocale, code) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
