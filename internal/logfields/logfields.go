package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyChannel         = "channel"
	KeyView            = "view"
	KeyPreviousView    = "previous_view"
	KeyOutcome         = "outcome"
	KeyInterval        = "interval"
	KeyRunID           = "run_id"
	KeyProvider        = "provider"
	KeyResource        = "resource"
	KeyPreviousCount   = "previous_count"
	KeyDiscoveredCount = "discovered_count"
	KeyActiveTasks     = "active_tasks"
	KeyElement         = "element"
	KeyDurationMS      = "duration_ms"
	KeyPath            = "path"
	KeyURL             = "url"
	KeyAttempt         = "attempt"
	KeyMethod          = "method"
	KeyStatus          = "status"
	KeyError           = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Channel(name string) slog.Attr   { return slog.String(KeyChannel, name) }
func View(v string) slog.Attr         { return slog.String(KeyView, v) }
func PreviousView(v string) slog.Attr { return slog.String(KeyPreviousView, v) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Interval(s string) slog.Attr     { return slog.String(KeyInterval, s) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Provider(p string) slog.Attr     { return slog.String(KeyProvider, p) }
func Resource(r string) slog.Attr     { return slog.String(KeyResource, r) }
func PreviousCount(n int) slog.Attr   { return slog.Int(KeyPreviousCount, n) }
func DiscoveredCount(n int) slog.Attr { return slog.Int(KeyDiscoveredCount, n) }
func ActiveTasks(n int) slog.Attr     { return slog.Int(KeyActiveTasks, n) }
func Element(kind string) slog.Attr   { return slog.String(KeyElement, kind) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
