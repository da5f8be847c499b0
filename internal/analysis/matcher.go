// Package analysis implements pool matching, stack clustering and
// saturation ranking over parsed thread records.
package analysis

import (
	"strings"

	"github.com/tdump-analysis/pkg/model"
)

// PoolMatcher decides thread-pool membership for a thread record.
// Matching is a literal, case-sensitive prefix on the thread name, the
// common convention for pool-worker naming: identifier
// "http-nio-8080-exec" matches "http-nio-8080-exec-3" but not
// "other-http-nio-8080-exec-3".
type PoolMatcher struct {
	prefix string
}

// NewPoolMatcher creates a matcher for the given pool identifier.
func NewPoolMatcher(poolPrefix string) *PoolMatcher {
	return &PoolMatcher{prefix: poolPrefix}
}

// Matches reports whether the record belongs to the requested pool.
// A non-matching record is simply excluded, never an error.
func (m *PoolMatcher) Matches(record *model.ThreadRecord) bool {
	return strings.HasPrefix(record.Name, m.prefix)
}

// Prefix returns the pool identifier this matcher was built with.
func (m *PoolMatcher) Prefix() string {
	return m.prefix
}
