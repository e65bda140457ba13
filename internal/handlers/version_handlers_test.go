package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"patch behind", "1.2.2", "1.2.3", -1},
		{"minor ahead", "1.3.0", "1.2.9", 1},
		{"major dominates", "2.0.0", "1.9.9", 1},
		{"missing segments count as zero", "1.2", "1.2.0", 0},
		{"shorter but behind", "1.2", "1.2.1", -1},
		{"double digit segment", "1.10.0", "1.9.0", 1},
		{"non numeric segment treated as zero", "1.x.0", "1.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareVersions(tt.a, tt.b))
		})
	}
}
