package refresh

import (
	"github.com/fauxforce/fauxforce/internal/cache"
	"github.com/fauxforce/fauxforce/internal/generator"
	"github.com/fauxforce/fauxforce/internal/logging"
)

// Option configures a Refresher.
type Option func(*refresherConfig)

type refresherConfig struct {
	gen    generator.Generator
	rec    cache.Reconciler
	logger *logging.Logger
}

// WithGenerator substitutes the stub text generator.
func WithGenerator(g generator.Generator) Option {
	return func(c *refresherConfig) {
		c.gen = g
	}
}

// WithReconciler substitutes the cache reconciler.
func WithReconciler(r cache.Reconciler) Option {
	return func(c *refresherConfig) {
		c.rec = r
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *refresherConfig) {
		c.logger = l
	}
}
