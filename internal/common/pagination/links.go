package pagination

import (
	"net/url"
	"strconv"
)

// FeedParam and FeedValue select feed output on any listing route.
const (
	FeedParam = "type"
	FeedValue = "rss"
)

// Links builds navigation URIs for one listing. Every link keeps the
// request's other query parameters.
type Links struct {
	path   string
	values url.Values
	pc     *Context
}

// NewLinks captures the listing path and the request's query parameters.
func NewLinks(path string, values url.Values, pc *Context) Links {
	return Links{path: path, values: cloneValues(values), pc: pc}
}

// Page links to page n.
func (l Links) Page(n int) string {
	v := cloneValues(l.values)
	v.Set(l.pc.Param(ParamPage), strconv.Itoa(n))
	return l.build(v)
}

// Sort links to the first page of the listing under key. The page size
// and every non-pagination parameter are kept.
func (l Links) Sort(key string) string {
	v := cloneValues(l.values)
	v.Del(l.pc.Param(ParamPage))
	v.Set(l.pc.Param(ParamSort), key)
	return l.build(v)
}

// PageSize links to the first page of the listing with n items per page.
func (l Links) PageSize(n int) string {
	v := cloneValues(l.values)
	v.Del(l.pc.Param(ParamPage))
	v.Set(l.pc.Param(ParamPageSize), strconv.Itoa(n))
	return l.build(v)
}

// Feed links to the syndication feed of the listing. Pagination and sort
// parameters are dropped since feeds use their own ordering.
func (l Links) Feed() string {
	v := cloneValues(l.values)
	v.Del(l.pc.Param(ParamPage))
	v.Del(l.pc.Param(ParamPageSize))
	v.Del(l.pc.Param(ParamSort))
	v.Set(FeedParam, FeedValue)
	return l.build(v)
}

// PageSizes returns the page sizes the listing offers.
func (l Links) PageSizes() []int {
	return l.pc.PageSizes()
}

func (l Links) build(v url.Values) string {
	if len(v) == 0 {
		return l.path
	}
	return l.path + "?" + v.Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// IsFeedRequest reports whether the query asks for feed output.
func IsFeedRequest(v url.Values) bool {
	return v.Get(FeedParam) == FeedValue
}
