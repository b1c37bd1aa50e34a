package utils

import "testing"

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, size string
		wantPage   int
		wantSize   int
	}{
		{"", "", 1, 20},
		{"3", "50", 3, 50},
		{"0", "-5", 1, 20},
		{"abc", "xyz", 1, 20},
		{"2", "500", 2, 100},
	}
	for _, tt := range tests {
		got := ParsePagination(tt.page, tt.size)
		if got.Page != tt.wantPage || got.PageSize != tt.wantSize {
			t.Errorf("ParsePagination(%q, %q) = %+v, want page %d size %d",
				tt.page, tt.size, got, tt.wantPage, tt.wantSize)
		}
	}
}
