package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thirteen() SliceSource[int] {
	s := make(SliceSource[int], 13)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		requested  string
		wantNumber int
		wantItems  []int
		wantPrev   bool
		wantNext   bool
	}{
		{"first page", "1", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
		{"second page", "2", 2, []int{11, 12, 13}, true, false},
		{"past the end clamps to last", "3", 2, []int{11, 12, 13}, true, false},
		{"empty selects first", "", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
		{"non numeric selects first", "abc", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
		{"zero selects first", "0", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
		{"negative selects first", "-4", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
		{"overflowing number clamps to last", "99999999999999999999", 2, []int{11, 12, 13}, true, false},
		{"overflowing negative selects first", "-99999999999999999999", 1, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate[int](context.Background(), thirteen(), 10, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantItems, page.Items)
			assert.Equal(t, 2, page.NumPages)
			assert.Equal(t, int64(13), page.Total)
			assert.Equal(t, tt.wantPrev, page.HasPrevious)
			assert.Equal(t, tt.wantNext, page.HasNext)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page, err := Paginate[string](context.Background(), SliceSource[string]{}, 10, "5")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasPrevious)
	assert.False(t, page.HasNext)
}

func TestPaginate_NeighbourLinks(t *testing.T) {
	s := make(SliceSource[int], 25)
	page, err := Paginate[int](context.Background(), s, 10, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, page.PreviousPage)
	assert.Equal(t, 3, page.NextPage)
}

type failingSource struct{ countErr, fetchErr error }

func (f failingSource) Count(context.Context) (int64, error) { return 3, f.countErr }
func (f failingSource) Fetch(context.Context, int, int) ([]int, error) {
	return nil, f.fetchErr
}

func TestPaginate_SourceErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Paginate[int](context.Background(), failingSource{countErr: boom}, 10, "1")
	assert.ErrorIs(t, err, boom)

	_, err = Paginate[int](context.Background(), failingSource{fetchErr: boom}, 10, "1")
	assert.ErrorIs(t, err, boom)
}

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, NumPages(0, 10))
	assert.Equal(t, 1, NumPages(10, 10))
	assert.Equal(t, 2, NumPages(11, 10))
}
