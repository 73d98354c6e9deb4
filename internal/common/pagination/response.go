package pagination

// Page is a materialized slice of a sorted listing plus its metadata.
//
// Invariants: 1 <= Metadata.Page <= Metadata.TotalPages and
// len(Items) <= Metadata.PageSize. Every page but the last is full.
type Page[T any] struct {
	Items    []T      `json:"items"`
	Metadata Metadata `json:"pagination"`
}

// Offset returns the zero-based position of the first item in the listing.
func (p *Page[T]) Offset() int {
	return CalculateOffset(p.Metadata.Page, p.Metadata.PageSize)
}

// Map converts a page of one item type into another, keeping metadata.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return &Page[U]{Items: items, Metadata: p.Metadata}
}
