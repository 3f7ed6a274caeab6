package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name  string
		page  Pagination
		want  []int
		pages int64
	}{
		{"first page", Pagination{Page: 1, Limit: 2, Offset: 0}, []int{1, 2}, 3},
		{"last partial page", Pagination{Page: 3, Limit: 2, Offset: 4}, []int{5}, 3},
		{"past the end", Pagination{Page: 9, Limit: 2, Offset: 16}, []int{}, 3},
		{"single page", Pagination{Page: 1, Limit: 10, Offset: 0}, items, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.page
			assert.Equal(t, tt.want, Slice(items, &p))
			assert.EqualValues(t, len(items), p.Total)
			assert.Equal(t, tt.pages, p.TotalPages())
		})
	}
}
