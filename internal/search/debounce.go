package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Func[T any] func(ctx context.Context, query string) (T, error)

type Result[T any] struct {
	Query string
	Value T
	Err   error
}

// Debouncer runs fn once the user has stopped typing for delay. Every
// keystroke restarts the wait and cancels the query still in flight, so
// only the latest query is ever delivered. An empty query is delivered at
// once without calling fn.
type Debouncer[T any] struct {
	delay   time.Duration
	fn      Func[T]
	deliver func(Result[T])

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	seq     uint64
	stopped bool
}

func NewDebouncer[T any](delay time.Duration, fn Func[T], deliver func(Result[T])) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn, deliver: deliver}
}

func (d *Debouncer[T]) Type(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.resetLocked()
	if query == "" {
		d.mu.Unlock()
		d.deliver(Result[T]{})
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, query) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) fire(seq uint64, query string) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	v, err := d.fn(ctx, query)
	cancel()

	d.mu.Lock()
	current := !d.stopped && seq == d.seq
	if current {
		d.cancel = nil
	}
	d.mu.Unlock()

	if current {
		d.deliver(Result[T]{Query: query, Value: v, Err: err})
	}
}

// Stop drops the pending keystroke and cancels the query in flight.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.resetLocked()
	d.mu.Unlock()
}
