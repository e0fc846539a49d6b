package undo

import (
	"log/slog"
	"time"

	"github.com/brunoga/undo/internal/clock"
)

const (
	// DefaultCapacity is the history size of a controller built without
	// WithCapacity.
	DefaultCapacity = 1024

	// recordCapacity bounds the operations collected by one recording scope.
	recordCapacity = 1024
)

// Clock is the time source a controller measures merge windows with.
type Clock interface {
	Now() time.Time
}

type options struct {
	capacity  int
	mergeSpan time.Duration
	logger    *slog.Logger
	clock     clock.Clock
	copier    Copier
}

// Option configures a Controller.
type Option func(*options)

// WithCapacity sets how many operations the history keeps. The oldest
// operation is dropped past that size.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithMergeSpan sets the window within which consecutive mergeable
// operations on the same target collapse into one. Zero disables merging.
func WithMergeSpan(d time.Duration) Option {
	return func(o *options) { o.mergeSpan = d }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source used for merge window decisions.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithSnapshotCopier sets the deep copy function used by ExecuteSnapshot.
func WithSnapshotCopier(c Copier) Option {
	return func(o *options) { o.copier = c }
}

// WithConfig applies a loaded Config.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.capacity = cfg.Capacity
		o.mergeSpan = cfg.MergeSpan.Duration
	}
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		logger:   slog.New(slog.DiscardHandler),
		clock:    clock.NewMonotonic(nil),
		copier:   DefaultCopier,
	}
}
