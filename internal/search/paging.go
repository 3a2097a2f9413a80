package search

const (
	MaxLimit = 100

	DefaultLatestLimit  = 10
	DefaultCompanyLimit = 20
	DefaultSearchLimit  = 10
	DefaultPageSize     = 20
)

// HasMoreByCount is the limit-only heuristic used by latest, company,
// trending and sentiment: a full page implies there may be more. It reports
// true on an exact fit too.
func HasMoreByCount(returned, limit int) bool {
	return returned == limit
}

// HasMoreByOffset is the search endpoint heuristic, offset+limit < total,
// written so that a huge offset cannot overflow.
func HasMoreByOffset(offset, limit, total int) bool {
	return offset >= 0 && offset < total && limit < total-offset
}

// HasMoreByPage is the CRUD listing heuristic for 1-based pages,
// page*size < total without the multiplication.
func HasMoreByPage(page, size, total int) bool {
	return size > 0 && page >= 1 && page < pageCount(size, total)
}

// PastEnd reports whether 1-based page starts beyond the last match. The
// first page is never past the end.
func PastEnd(page, size, total int) bool {
	if page <= 1 || size <= 0 {
		return false
	}
	return page-1 >= pageCount(size, total)
}

func pageCount(size, total int) int {
	if total <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// ClampLimit caps a limit-only request at MaxLimit.
func ClampLimit(limit int) int {
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
