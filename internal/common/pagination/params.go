package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Params represents the raw pagination query parameters of one request.
// Zero values mean "not supplied or unusable"; resolution fills them in.
type Params struct {
	Sort     string // Requested sort key, unvalidated
	Page     int    // Requested 1-based page, 0 when absent or invalid
	PageSize int    // Requested page size, 0 when absent or invalid
}

// ParseQueryParams extracts pagination parameters from a query string.
// It never fails: malformed values are dropped so that resolution falls
// back to stored or default values.
//
// Query parameters (each optionally prefixed):
//   - sort: Sort key
//   - page: Page number (positive integer; oversized values are kept and clamped later)
//   - pagesize: Items per page (positive integer; membership checked during resolution)
func ParseQueryParams(values url.Values, prefix string) Params {
	return Params{
		Sort:     strings.TrimSpace(values.Get(prefix + ParamSort)),
		Page:     parsePositive(values.Get(prefix + ParamPage)),
		PageSize: parsePositive(values.Get(prefix + ParamPageSize)),
	}
}

// parsePositive parses s as a positive integer. Values too large for an int
// saturate to the maximum so that "page=99999999999999999999" still means
// "the last page" instead of "the first page".
func parsePositive(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && n > 0 {
			return n
		}
		return 0
	}
	if n < 1 {
		return 0
	}
	return n
}
