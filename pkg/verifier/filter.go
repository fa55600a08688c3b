package verifier

import (
	"fmt"

	"github.com/gobwas/glob"
)

// CheckFilter handles glob pattern matching for check selection.
type CheckFilter struct {
	skipPatterns []glob.Glob
}

// NewCheckFilter compiles the skip patterns into a filter.
func NewCheckFilter(skip []string) (*CheckFilter, error) {
	filter := &CheckFilter{}

	for _, pattern := range skip {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern '%s': %w", pattern, err)
		}
		filter.skipPatterns = append(filter.skipPatterns, g)
	}

	return filter, nil
}

// Skipped returns true if the named check matches any skip pattern.
func (f *CheckFilter) Skipped(name string) bool {
	for _, pattern := range f.skipPatterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}
