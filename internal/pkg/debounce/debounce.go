// Package debounce reduces bursts of input to the last value of each burst.
// A burst ends once no new value has arrived for the quiet period.
package debounce

import (
	"context"
	"sort"
	"time"
)

// Debouncer holds the latest pending value. It never reads the clock itself;
// callers pass the time of every push and poll.
type Debouncer[T any] struct {
	quiet   time.Duration
	pending T
	last    time.Time
	has     bool
}

func New[T any](quiet time.Duration) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet}
}

// Push replaces the pending value and restarts the quiet period at at.
func (d *Debouncer[T]) Push(at time.Time, v T) {
	d.pending = v
	d.last = at
	d.has = true
}

// Ready returns the pending value once the quiet period has elapsed at now.
// A returned value is consumed.
func (d *Debouncer[T]) Ready(now time.Time) (T, bool) {
	var zero T
	if !d.has || now.Sub(d.last) < d.quiet {
		return zero, false
	}
	v := d.pending
	d.pending, d.has = zero, false
	return v, true
}

// Deadline is the instant at which the pending value becomes ready.
func (d *Debouncer[T]) Deadline() (time.Time, bool) {
	if !d.has {
		return time.Time{}, false
	}
	return d.last.Add(d.quiet), true
}

// Flush returns and clears the pending value regardless of the quiet period.
func (d *Debouncer[T]) Flush() (T, bool) {
	var zero T
	if !d.has {
		return zero, false
	}
	v := d.pending
	d.pending, d.has = zero, false
	return v, true
}

type Event[T any] struct {
	At    time.Time
	Value T
}

// Collapse returns the trailing value of every burst in events. The final
// burst is always emitted.
func Collapse[T any](events []Event[T], quiet time.Duration) []T {
	sorted := append([]Event[T](nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	out := make([]T, 0, len(sorted))
	d := New[T](quiet)
	for _, ev := range sorted {
		if v, ok := d.Ready(ev.At); ok {
			out = append(out, v)
		}
		d.Push(ev.At, ev.Value)
	}
	if v, ok := d.Flush(); ok {
		out = append(out, v)
	}
	return out
}

// Run reads values from in and calls emit with the last value of each burst.
// When in is closed the pending value is emitted and Run returns nil.
func Run[T any](ctx context.Context, in <-chan T, quiet time.Duration, emit func(T)) error {
	d := New[T](quiet)
	timer := time.NewTimer(quiet)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-in:
			if !ok {
				if pending, has := d.Flush(); has {
					emit(pending)
				}
				return nil
			}
			d.Push(time.Now(), v)
			timer.Reset(quiet)
		case now := <-timer.C:
			if v, ok := d.Ready(now); ok {
				emit(v)
			} else if deadline, has := d.Deadline(); has {
				timer.Reset(time.Until(deadline))
			}
		}
	}
}
