package utils

const rowsPerPageDefault = 10
const rowsPerPageMax = 1000

// GetPaginationParams converts a 1-based page number and page size into an
// offset and limit. Page 0 (or negative) means the first page; the page size
// falls back to a default and is capped at a maximum value.
func GetPaginationParams(pageNo int, rowsPerPage int) (int, int) {
	limit := rowsPerPageDefault
	if rowsPerPage > 0 {
		limit = min(rowsPerPage, rowsPerPageMax)
	}

	offset := 0
	if pageNo > 1 {
		offset = (pageNo - 1) * limit
	}

	return offset, limit
}
