//go:build profile

package profiler

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	scopes = map[string]*Scope{}
)

const Enabled = true

// Start begins a scope and returns the func that ends it.
// Example: defer profiler.Start("Renderer2D.Flush")()
func Start(name string) func() {
	begin := time.Now()
	return func() {
		d := time.Since(begin)
		mu.Lock()
		defer mu.Unlock()
		s, ok := scopes[name]
		if !ok {
			s = &Scope{Name: name}
			scopes[name] = s
		}
		s.Count++
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
	}
}

// Snapshot returns every scope, most expensive first.
func Snapshot() []Scope {
	mu.Lock()
	out := make([]Scope, 0, len(scopes))
	for _, s := range scopes {
		out = append(out, *s)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

func Reset() {
	mu.Lock()
	clear(scopes)
	mu.Unlock()
}

// LogSummary writes one info line per scope.
func LogSummary(l *slog.Logger) {
	for _, s := range Snapshot() {
		l.Info("profile",
			slog.String("scope", s.Name),
			slog.Int("count", s.Count),
			slog.Duration("mean", s.Mean()),
			slog.Duration("max", s.Max),
		)
	}
}
