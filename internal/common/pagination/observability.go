package pagination

import (
	"log/slog"
)

// LogResolution logs how a request's pagination parameters were resolved.
func LogResolution(logger *slog.Logger, pc *Context, p Params, sel Selection) {
	logger.Debug("pagination resolved",
		slog.String("context", pc.Key()),
		slog.String("requested_sort", p.Sort),
		slog.String("sort", sel.SortKey),
		slog.Bool("forced", sel.Forced),
		slog.Int("requested_page_size", p.PageSize),
		slog.Int("page_size", sel.PageSize),
		slog.Int("page", sel.Page))
}

// LogPreferenceError logs a failed preference load or save. Preference
// failures never fail the request.
func LogPreferenceError(logger *slog.Logger, pc *Context, op string, err error) {
	logger.Warn("pagination preference unavailable",
		slog.String("context", pc.Key()),
		slog.String("op", op),
		slog.Any("error", err))
}
