package pagination

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidContext is returned when a paginator context violates its invariants.
var ErrInvalidContext = errors.New("invalid paginator context")

// Context bundles the sorts and page sizes available to one listing type.
// A Context is immutable once built and safe to share between requests;
// With and Forced return modified copies.
type Context struct {
	id              string
	prefix          string
	sorts           []SortStrategy
	defaultSort     string
	pageSizes       []int
	defaultPageSize int
	forcedSort      string
}

// Option configures a Context under construction.
type Option func(*Context)

// WithSorts sets the available sorts in display order.
func WithSorts(sorts ...SortStrategy) Option {
	return func(c *Context) { c.sorts = append(c.sorts, sorts...) }
}

// WithDefaultSort sets the sort used when nothing else applies.
// Defaults to the first sort.
func WithDefaultSort(key string) Option {
	return func(c *Context) { c.defaultSort = key }
}

// WithPageSizes sets the allowed page sizes.
func WithPageSizes(sizes ...int) Option {
	return func(c *Context) { c.pageSizes = slices.Clone(sizes) }
}

// WithDefaultPageSize sets the page size used when nothing else applies.
// Defaults to the first allowed size.
func WithDefaultPageSize(size int) Option {
	return func(c *Context) { c.defaultPageSize = size }
}

// WithPrefix namespaces the context's query parameters and stored preference.
func WithPrefix(prefix string) Option {
	return func(c *Context) { c.prefix = prefix }
}

// WithForcedSort makes key win over any requested or stored sort.
func WithForcedSort(key string) Option {
	return func(c *Context) { c.forcedSort = key }
}

// NewContext builds and validates a paginator context.
func NewContext(id string, opts ...Option) (*Context, error) {
	c := &Context{id: id}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultSort == "" && len(c.sorts) > 0 {
		c.defaultSort = c.sorts[0].Key()
	}
	if c.defaultPageSize == 0 && len(c.pageSizes) > 0 {
		c.defaultPageSize = c.pageSizes[0]
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewContext is like NewContext but panics on invalid configuration.
// Intended for package-level fixtures and tests.
func MustNewContext(id string, opts ...Option) *Context {
	c, err := NewContext(id, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the context identifier.
func (c *Context) ID() string { return c.id }

// Prefix returns the query parameter prefix.
func (c *Context) Prefix() string { return c.prefix }

// Key identifies the context in a preference store.
func (c *Context) Key() string { return c.prefix + c.id }

// Param returns the prefixed name of a pagination query parameter.
func (c *Context) Param(name string) string { return c.prefix + name }

// Sorts returns the available sorts in display order.
func (c *Context) Sorts() []SortStrategy { return slices.Clone(c.sorts) }

// Sort looks a strategy up by key.
func (c *Context) Sort(key string) (SortStrategy, bool) {
	for _, s := range c.sorts {
		if s.Key() == key {
			return s, true
		}
	}
	return nil, false
}

// DefaultSort returns the default sort key.
func (c *Context) DefaultSort() string { return c.defaultSort }

// ForcedSort returns the forced sort key, or "" when none is set.
func (c *Context) ForcedSort() string { return c.forcedSort }

// PageSizes returns the allowed page sizes.
func (c *Context) PageSizes() []int { return slices.Clone(c.pageSizes) }

// DefaultPageSize returns the default page size.
func (c *Context) DefaultPageSize() int { return c.defaultPageSize }

// AllowsPageSize reports whether size is one of the allowed page sizes.
func (c *Context) AllowsPageSize(size int) bool {
	return slices.Contains(c.pageSizes, size)
}

// With returns a copy of c with the given sorts added. A sort whose key
// already exists replaces the existing one in place.
func (c *Context) With(sorts ...SortStrategy) *Context {
	cp := c.clone()
	for _, s := range sorts {
		idx := slices.IndexFunc(cp.sorts, func(e SortStrategy) bool { return e.Key() == s.Key() })
		if idx >= 0 {
			cp.sorts[idx] = s
			continue
		}
		cp.sorts = append(cp.sorts, s)
	}
	return cp
}

// Forced returns a copy of c whose sort is pinned to key.
func (c *Context) Forced(key string) (*Context, error) {
	if _, ok := c.Sort(key); !ok {
		return nil, fmt.Errorf("%w: %s: forced sort %q is not available", ErrInvalidContext, c.id, key)
	}
	cp := c.clone()
	cp.forcedSort = key
	return cp, nil
}

func (c *Context) clone() *Context {
	cp := *c
	cp.sorts = slices.Clone(c.sorts)
	cp.pageSizes = slices.Clone(c.pageSizes)
	return &cp
}
