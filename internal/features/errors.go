package features

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFeatureError reports every feature name a table failed to provide.
// It always carries the full sorted set of missing names so a caller can fix
// all gaps in one pass instead of replaying the run per missing column.
type MissingFeatureError struct {
	Missing []string
}

// NewMissingFeatureError builds the error from an unordered set of names,
// deduplicating and sorting them.
func NewMissingFeatureError(names ...string) *MissingFeatureError {
	seen := make(map[string]bool, len(names))
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return &MissingFeatureError{Missing: missing}
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing required features: %s", strings.Join(e.Missing, ", "))
}
