package renderer2d

import "log/slog"

type Status int

const (
	Executed Status = iota
	Skipped
)

// Reason explains a skipped command.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonMissingField  Reason = "missing required field"
	ReasonNotLoaded     Reason = "image not loaded"
	ReasonNoShader      Reason = "shader program unavailable"
	ReasonNoTexture     Reason = "texture unavailable"
	ReasonNoRasterizer  Reason = "no text rasterizer"
	ReasonRasterizeFail Reason = "text rasterization failed"
	ReasonNoGeometry    Reason = "geometry unavailable"
)

// Result is the outcome of executing one command.
type Result struct {
	Kind   Kind
	Status Status
	Reason Reason
}

func executed(k Kind) Result          { return Result{Kind: k, Status: Executed} }
func skipped(k Kind, r Reason) Result { return Result{Kind: k, Status: Skipped, Reason: r} }

// Diagnostics observes every command result in execution order. Observing
// never changes what gets drawn.
type Diagnostics interface {
	Observe(cmd *DrawCommand, res Result)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(cmd *DrawCommand, res Result)

func (f DiagnosticsFunc) Observe(cmd *DrawCommand, res Result) { f(cmd, res) }

// Observation is a snapshot kept by Collector.
type Observation struct {
	Command DrawCommand
	Result  Result
}

// Collector records observations until Reset.
type Collector struct {
	Observations []Observation
}

func (c *Collector) Observe(cmd *DrawCommand, res Result) {
	c.Observations = append(c.Observations, Observation{Command: *cmd, Result: res})
}

func (c *Collector) Reset() { c.Observations = c.Observations[:0] }

// Skipped returns the recorded skips.
func (c *Collector) Skipped() []Observation {
	var out []Observation
	for _, o := range c.Observations {
		if o.Result.Status == Skipped {
			out = append(out, o)
		}
	}
	return out
}

// LogDiagnostics reports skipped commands at debug level.
func LogDiagnostics(l *slog.Logger) Diagnostics {
	return DiagnosticsFunc(func(cmd *DrawCommand, res Result) {
		if res.Status != Skipped {
			return
		}
		l.Debug("draw skipped",
			slog.String("kind", res.Kind.String()),
			slog.String("reason", string(res.Reason)),
			slog.Float64("z", float64(cmd.ZIndex)),
		)
	})
}
