package pagination

import (
	"fmt"
	"slices"
)

// validate checks the context invariants: at least one sort, unique sort
// keys, default and forced sorts present, positive page sizes and a
// default page size among them.
func (c *Context) validate() error {
	if c.id == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidContext)
	}
	if len(c.sorts) == 0 {
		return fmt.Errorf("%w: %s: no sorts configured", ErrInvalidContext, c.id)
	}
	seen := make(map[string]struct{}, len(c.sorts))
	for _, s := range c.sorts {
		if s.Key() == "" {
			return fmt.Errorf("%w: %s: sort with empty key", ErrInvalidContext, c.id)
		}
		if _, dup := seen[s.Key()]; dup {
			return fmt.Errorf("%w: %s: duplicate sort %q", ErrInvalidContext, c.id, s.Key())
		}
		seen[s.Key()] = struct{}{}
	}
	if _, ok := seen[c.defaultSort]; !ok {
		return fmt.Errorf("%w: %s: default sort %q is not available", ErrInvalidContext, c.id, c.defaultSort)
	}
	if c.forcedSort != "" {
		if _, ok := seen[c.forcedSort]; !ok {
			return fmt.Errorf("%w: %s: forced sort %q is not available", ErrInvalidContext, c.id, c.forcedSort)
		}
	}
	if len(c.pageSizes) == 0 {
		return fmt.Errorf("%w: %s: no page sizes configured", ErrInvalidContext, c.id)
	}
	for _, size := range c.pageSizes {
		if size < 1 {
			return fmt.Errorf("%w: %s: page size must be positive, got %d", ErrInvalidContext, c.id, size)
		}
	}
	if !slices.Contains(c.pageSizes, c.defaultPageSize) {
		return fmt.Errorf("%w: %s: default page size %d is not allowed", ErrInvalidContext, c.id, c.defaultPageSize)
	}
	return nil
}

// Selection is the outcome of resolving request parameters against a
// context and a stored preference.
type Selection struct {
	Sort     SortStrategy
	SortKey  string // Active sort key
	PageSize int
	Page     int  // Requested page, 1 when absent; clamped by the engine
	Forced   bool // Sort came from the context's forced sort

	// PreferredSortKey is the key to persist. It differs from SortKey only
	// when the active sort is forced.
	PreferredSortKey string
}

// Preference returns the value to write back to the preference store.
func (s Selection) Preference() Preference {
	return Preference{SortKey: s.PreferredSortKey, PageSize: s.PageSize}
}

// Resolve picks the active sort, page size and page for a request.
// Unknown sort keys and disallowed page sizes are ignored rather than
// rejected; stored may be nil.
//
// Sort precedence: forced, request, stored, default.
// Page size precedence: request, stored, default.
func (c *Context) Resolve(p Params, stored *Preference) Selection {
	preferred := c.defaultSort
	if stored != nil {
		if _, ok := c.Sort(stored.SortKey); ok {
			preferred = stored.SortKey
		}
	}
	if _, ok := c.Sort(p.Sort); ok {
		preferred = p.Sort
	}

	active, forced := preferred, false
	if c.forcedSort != "" {
		active, forced = c.forcedSort, true
	}
	sort, _ := c.Sort(active)

	size := c.defaultPageSize
	switch {
	case c.AllowsPageSize(p.PageSize):
		size = p.PageSize
	case stored != nil && c.AllowsPageSize(stored.PageSize):
		size = stored.PageSize
	}

	page := p.Page
	if page < 1 {
		page = 1
	}

	return Selection{
		Sort:             sort,
		SortKey:          active,
		PageSize:         size,
		Page:             page,
		Forced:           forced,
		PreferredSortKey: preferred,
	}
}
