package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFilter_Skipped(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		check    string
		skipped  bool
	}{
		{
			name:     "no patterns skips nothing",
			patterns: nil,
			check:    "title",
			skipped:  false,
		},
		{
			name:     "exact match",
			patterns: []string{"render-loop"},
			check:    "render-loop",
			skipped:  true,
		},
		{
			name:     "wildcard match",
			patterns: []string{"render-*"},
			check:    "render-loop",
			skipped:  true,
		},
		{
			name:     "wildcard non-match",
			patterns: []string{"render-*"},
			check:    "video-element",
			skipped:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewCheckFilter(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.skipped, filter.Skipped(tt.check))
		})
	}
}

func TestCheckFilter_InvalidPattern(t *testing.T) {
	_, err := NewCheckFilter([]string{"[oops"})
	assert.Error(t, err)
}
