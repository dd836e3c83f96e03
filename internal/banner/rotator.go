// Package banner implements the rotation of the promotional banner strip.
package banner

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the automatic rotation interval.
const DefaultInterval = 5 * time.Second

// ErrIndexOutOfRange is returned by Goto for an index outside [0, length).
var ErrIndexOutOfRange = errors.New("banner index out of range")

// Option configures a Rotator.
type Option func(*Rotator)

// WithClock sets the clock used to schedule automatic rotation.
func WithClock(c Clock) Option {
	return func(r *Rotator) { r.clock = c }
}

// WithLogger sets the rotator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rotator) { r.logger = l }
}

// Rotator tracks the displayed banner index. With more than one banner it
// advances automatically every interval; every transition restarts the
// countdown. At most one timer is armed at any time.
type Rotator struct {
	mu       sync.Mutex
	index    int
	length   int
	interval time.Duration
	clock    Clock
	timer    Timer

	// gen identifies the armed timer. A callback whose generation is stale
	// was superseded by a later transition and does nothing.
	gen    uint64
	closed bool

	logger *slog.Logger
}

// NewRotator creates a rotator over length banners starting at index 0.
// A non-positive interval selects DefaultInterval.
func NewRotator(length int, interval time.Duration, opts ...Option) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Rotator{
		length:   max(length, 0),
		interval: interval,
		clock:    RealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With(slog.String("component", "banner_rotator"))

	r.mu.Lock()
	r.rearmLocked()
	r.mu.Unlock()
	return r
}

// Current returns the displayed index.
func (r *Rotator) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Length returns the number of banners being rotated.
func (r *Rotator) Length() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.length
}

// Next advances to the following banner, wrapping around.
func (r *Rotator) Next() int {
	return r.transition(func() { r.index = (r.index + 1) % r.length })
}

// Previous moves to the preceding banner, wrapping around.
func (r *Rotator) Previous() int {
	return r.transition(func() { r.index = (r.index - 1 + r.length) % r.length })
}

// Goto shows banner i.
func (r *Rotator) Goto(i int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= r.length {
		return r.index, ErrIndexOutOfRange
	}
	if r.closed {
		return r.index, nil
	}
	r.index = i
	r.rearmLocked()
	return r.index, nil
}

// SetLength adjusts the rotator after banners were added or removed. The
// index is clamped into the new range and the countdown restarts.
func (r *Rotator) SetLength(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.length = max(n, 0)
	if r.index >= r.length {
		r.index = max(r.length-1, 0)
	}
	r.rearmLocked()
}

// Close stops automatic rotation. Later calls leave the index unchanged.
func (r *Rotator) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopLocked()
}

func (r *Rotator) transition(move func()) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.length <= 1 {
		return r.index
	}
	move()
	r.rearmLocked()
	return r.index
}

// rearmLocked cancels the armed timer and, with more than one banner,
// arms a new one.
func (r *Rotator) rearmLocked() {
	r.stopLocked()
	if r.closed || r.length <= 1 {
		r.index = 0
		return
	}
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.interval, func() { r.fire(gen) })
}

func (r *Rotator) stopLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Rotator) fire(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		return
	}
	r.index = (r.index + 1) % r.length
	r.logger.Debug("banner rotated", slog.Int("index", r.index))
	r.rearmLocked()
}
