//go:build !profile

package profiler

import "log/slog"

// Stubbed no-op versions when the "profile" build tag is not set.

const Enabled = false

func Start(name string) func() { return func() {} }

func Snapshot() []Scope { return nil }

func Reset() {}

func LogSummary(l *slog.Logger) {}
