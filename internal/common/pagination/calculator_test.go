package pagination_test

import (
	"testing"

	"clinic-reviews/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"first page", 1, 20, 0},
		{"second page", 2, 20, 20},
		{"third page smaller limit", 3, 10, 20},
		{"large page", 100, 50, 4950},
		{"limit of one", 5, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := pagination.CalculateOffset(tt.page, tt.limit); got != tt.want {
				t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty result has no pages", 0, 20, 0},
		{"single row", 1, 20, 1},
		{"less than one page", 10, 20, 1},
		{"exactly one page", 20, 20, 1},
		{"one over rolls to next page", 21, 20, 2},
		{"even division", 100, 20, 5},
		{"large total", 99999, 100, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := pagination.CalculateTotalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}
