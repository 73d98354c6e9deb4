package pagination

// CalculateOffset calculates the database OFFSET value based on page number and page size.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * pageSize
//
// Examples:
//   - Page 1, Size 20 -> Offset 0
//   - Page 2, Size 20 -> Offset 20
//   - Page 3, Size 10 -> Offset 20
func CalculateOffset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates the total number of pages based on total items and page size.
// Uses ceiling division to ensure all items are included.
//
// Special cases:
//   - If total is 0, returns 1 (an empty listing is a single empty page)
//   - If total < pageSize, returns 1
//   - Otherwise, returns ceil(total / pageSize)
//
// Examples:
//   - Total 0, Size 20 -> 1 page
//   - Total 20, Size 20 -> 1 page
//   - Total 21, Size 20 -> 2 pages
func CalculateTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	// Ceiling division: (total + size - 1) / size
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ClampPage forces page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 1:
		return 1
	case page > totalPages:
		return totalPages
	default:
		return page
	}
}

// PageForPosition returns the 1-based page holding the record preceded by
// ahead records in the full ordering.
//
// Examples:
//   - 0 ahead, Size 10 -> page 1
//   - 9 ahead, Size 10 -> page 1
//   - 10 ahead, Size 10 -> page 2
func PageForPosition(ahead int64, pageSize int) int {
	if ahead <= 0 || pageSize <= 0 {
		return 1
	}
	return int(ahead/int64(pageSize)) + 1
}
