package pagination

// Metadata describes one page of a listing. It is included in every page
// descriptor and in API responses.
type Metadata struct {
	Total      int64  `json:"total"`       // Total number of items across all pages
	Page       int    `json:"page"`        // Current page number (1-based, clamped)
	PageSize   int    `json:"page_size"`   // Items per page
	TotalPages int    `json:"total_pages"` // Never less than 1
	Sort       string `json:"sort"`        // Active sort key
}

// HasPrev reports whether a previous page exists.
func (m Metadata) HasPrev() bool { return m.Page > 1 }

// HasNext reports whether a next page exists.
func (m Metadata) HasNext() bool { return m.Page < m.TotalPages }

// Navigation is the set of page numbers to link around the current page.
type Navigation struct {
	Pages     []int `json:"pages"`
	ShowFirst bool  `json:"show_first"` // Page 1 is outside Pages
	ShowLast  bool  `json:"show_last"`  // The last page is outside Pages
}

// NewNavigation returns the page numbers within window pages of m.Page.
func NewNavigation(m Metadata, window int) Navigation {
	if window < 0 {
		window = 0
	}
	lo := max(1, m.Page-window)
	hi := min(m.TotalPages, m.Page+window)
	pages := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		pages = append(pages, n)
	}
	return Navigation{
		Pages:     pages,
		ShowFirst: lo > 1,
		ShowLast:  hi < m.TotalPages,
	}
}
