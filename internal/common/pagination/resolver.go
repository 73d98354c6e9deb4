package pagination

import (
	"context"
	"log/slog"
	"net/url"
)

// Resolver resolves pagination parameters against a context and the
// caller's stored preference, then writes the outcome back.
type Resolver struct {
	Store  PreferenceStore // optional
	Logger *slog.Logger
}

// Resolve reads the stored preference for owner, resolves the request's
// parameters and saves the resolved sort and page size. Store failures
// are logged and otherwise ignored. An empty owner skips the store.
func (r *Resolver) Resolve(ctx context.Context, pc *Context, owner string, values url.Values) Selection {
	logger := r.logger()
	params := ParseQueryParams(values, pc.Prefix())

	var stored *Preference
	if r.Store != nil && owner != "" {
		pref, err := r.Store.Load(ctx, owner, pc.Key())
		if err != nil {
			RecordError("preference")
			LogPreferenceError(logger, pc, "load", err)
		}
		stored = pref
	}

	sel := pc.Resolve(params, stored)
	LogResolution(logger, pc, params, sel)

	if r.Store != nil && owner != "" {
		if err := r.Store.Save(ctx, owner, pc.Key(), sel.Preference()); err != nil {
			RecordError("preference")
			LogPreferenceError(logger, pc, "save", err)
		}
	}
	return sel
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
