package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile     = "file"
	KeyFunction = "function"
	KeyRefID    = "refid"
	KeySection  = "section"
	KeyPath     = "path"
	KeyCount    = "count"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(name string) slog.Attr     { return slog.String(KeyFile, name) }
func Function(name string) slog.Attr { return slog.String(KeyFunction, name) }
func RefID(id string) slog.Attr      { return slog.String(KeyRefID, id) }
func Section(s string) slog.Attr     { return slog.String(KeySection, s) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
