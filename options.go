package compose

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSize is the root size used when WithSize is not given.
var DefaultSize = geom.Sz(800, 600)

// Option is a functional option for configuring a RenderRoot.
type Option func(*RenderRoot) error

// WithSize sets the size the layout pass lays the root out in.
func WithSize(size geom.Size) Option {
	return func(r *RenderRoot) error {
		if size.Width < 0 || size.Height < 0 {
			return errors.Newf("root size %s must not be negative", size)
		}
		r.size = size
		return nil
	}
}

// WithTrace enables per-widget debug spans for the selected passes.
func WithTrace(trace Trace) Option {
	return func(r *RenderRoot) error {
		r.global.trace = trace
		return nil
	}
}

// WithLogger sets the logger used for pass summaries and trace spans.
// The default comes from internal/debug and discards unless COMPOSE_DEBUG is set.
func WithLogger(logger *slog.Logger) Option {
	return func(r *RenderRoot) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		r.global.logger = logger
		return nil
	}
}

// WithMaxDepth caps the tree depth a pass will recurse through.
// Exceeding it is treated as a malformed tree and panics.
func WithMaxDepth(depth int) Option {
	return func(r *RenderRoot) error {
		if depth < 1 {
			return errors.Newf("max depth must be at least 1, got %d", depth)
		}
		r.global.maxDepth = depth
		return nil
	}
}

// WithMetrics registers compose pass collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *RenderRoot) error {
		if reg == nil {
			return errors.New("metrics registerer must not be nil")
		}
		m := newPassMetrics()
		if err := m.register(reg); err != nil {
			return err
		}
		r.global.metrics = m
		return nil
	}
}
