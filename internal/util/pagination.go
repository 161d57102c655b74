package util

import "errors"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxWindow matches Elasticsearch's default index.max_result_window.
	MaxWindow = 10000
)

var ErrPageOutOfRange = errors.New("page out of range")

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out-of-range sizes fall back to DefaultPageSize. Pages whose window ends
// past MaxWindow are rejected with ErrPageOutOfRange.
func Calculate(page, size int) (from, limit int, err error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page > MaxWindow/size {
		return 0, 0, ErrPageOutOfRange
	}
	from = (page - 1) * size
	return from, size, nil
}
