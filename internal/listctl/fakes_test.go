package listctl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and runs every timer that came due, in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// Pending counts timers that are armed and have not fired.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type brand struct {
	ID   int64
	Name string
}

func (b brand) GetID() int64        { return b.ID }
func (b brand) DisplayName() string { return b.Name }

func (b *brand) SetField(name, value string) error {
	if name != "name" {
		return fmt.Errorf("unknown field %q", name)
	}
	b.Name = value
	return nil
}

// fakeRemote is an in-memory Remote. Hooks, when set, replace the default
// behavior of the matching call.
type fakeRemote struct {
	mu      sync.Mutex
	records []brand
	nextID  int64

	listFn   func(ctx context.Context) ([]brand, error)
	createFn func(ctx context.Context, b brand) (brand, error)
	updateFn func(ctx context.Context, b brand) (brand, error)
	deleteFn func(ctx context.Context, id int64) error

	creates, updates, deletes int
}

func newFakeRemote(records ...brand) *fakeRemote {
	r := &fakeRemote{records: records, nextID: 100}
	return r
}

func (r *fakeRemote) List(ctx context.Context) ([]brand, error) {
	if r.listFn != nil {
		return r.listFn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]brand(nil), r.records...), nil
}

func (r *fakeRemote) Create(ctx context.Context, b brand) (brand, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	if r.createFn != nil {
		return r.createFn(ctx, b)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.records = append(r.records, b)
	return b, nil
}

func (r *fakeRemote) Update(ctx context.Context, b brand) (brand, error) {
	r.mu.Lock()
	r.updates++
	r.mu.Unlock()
	if r.updateFn != nil {
		return r.updateFn(ctx, b)
	}
	return b, nil
}

func (r *fakeRemote) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	r.deletes++
	r.mu.Unlock()
	if r.deleteFn != nil {
		return r.deleteFn(ctx, id)
	}
	return nil
}

var errRejected = errors.New("Name already in use")
