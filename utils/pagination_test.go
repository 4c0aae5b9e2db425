package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name           string
		pageNo         int
		rowsPerPage    int
		expectedOffset int
		expectedLimit  int
	}{
		{"defaults", 0, 0, 0, 10},
		{"first page explicit", 1, 25, 0, 25},
		{"second page", 2, 25, 25, 25},
		{"tenth page", 10, 50, 450, 50},
		{"limit capped", 1, 5000, 0, 1000},
		{"negative page treated as first", -3, 10, 0, 10},
		{"negative size falls back to default", 2, -1, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := GetPaginationParams(tt.pageNo, tt.rowsPerPage)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}
