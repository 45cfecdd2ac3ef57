// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Source is an ordered, countable result set that can be read in windows.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one window of a Source.
type Page[T any] struct {
	Items        []T   `json:"items"`
	Number       int   `json:"number"`
	NumPages     int   `json:"num_pages"`
	Total        int64 `json:"total"`
	PageSize     int   `json:"page_size"`
	HasPrevious  bool  `json:"has_previous"`
	HasNext      bool  `json:"has_next"`
	PreviousPage int   `json:"previous_page,omitempty"`
	NextPage     int   `json:"next_page,omitempty"`
}

// ParsePage turns the raw "page" query value into a page number.
// Anything that is not a positive integer selects the first page. Positive
// numbers too large for int select math.MaxInt so callers clamp them to the last page.
func ParsePage(requested string) int {
	raw := strings.TrimSpace(requested)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NumPages returns how many pages of pageSize cover total items. An empty set has one page.
func NumPages(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Paginate returns the requested page of source. Requests past the last page
// return the last page.
func Paginate[T any](ctx context.Context, source Source[T], pageSize int, requested string) (*Page[T], error) {
	if pageSize < 1 {
		pageSize = 1
	}

	total, err := source.Count(ctx)
	if err != nil {
		return nil, err
	}

	numPages := NumPages(total, pageSize)
	number := ParsePage(requested)
	if number > numPages {
		number = numPages
	}

	items := []T{}
	if total > 0 {
		items, err = source.Fetch(ctx, (number-1)*pageSize, pageSize)
		if err != nil {
			return nil, err
		}
	}

	page := &Page[T]{
		Items:       items,
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		PageSize:    pageSize,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}
	if page.HasPrevious {
		page.PreviousPage = number - 1
	}
	if page.HasNext {
		page.NextPage = number + 1
	}
	return page, nil
}

// SliceSource adapts an already ordered slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(context.Context) (int64, error) {
	return int64(len(s)), nil
}

func (s SliceSource[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := min(offset+limit, len(s))
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}
