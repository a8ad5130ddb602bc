// Package profiler times named scopes. Without the "profile" build tag every
// call is a no-op.
package profiler

import "time"

// Scope aggregates every completed Start/end pair sharing a name.
type Scope struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean is the average duration of one pass through the scope.
func (s Scope) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}
