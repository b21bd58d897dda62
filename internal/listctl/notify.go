package listctl

import (
	"sync"
	"time"
)

// Kind selects a notification slot.
type Kind int

const (
	KindError Kind = iota
	KindSuccess
)

// Default auto-clear durations.
const (
	DefaultErrorTTL   = 10 * time.Second
	DefaultSuccessTTL = 5 * time.Second
)

type slot struct {
	text  string
	timer Timer
	// gen identifies the current message; a timer armed for an older
	// generation must not clear a newer message.
	gen uint64
}

// Notifier holds two independent self-clearing message slots. Each slot owns
// at most one armed timer; posting or dismissing cancels it.
type Notifier struct {
	clock    Clock
	ttl      [2]time.Duration
	onChange func()

	mu    sync.Mutex
	slots [2]slot
}

// NewNotifier creates a Notifier. Zero TTLs select the defaults; a nil clock
// selects the wall clock. onChange, if set, runs after every change
// including timer-driven clears, without any lock held.
func NewNotifier(clock Clock, errorTTL, successTTL time.Duration, onChange func()) *Notifier {
	if clock == nil {
		clock = realClock{}
	}
	if errorTTL <= 0 {
		errorTTL = DefaultErrorTTL
	}
	if successTTL <= 0 {
		successTTL = DefaultSuccessTTL
	}
	return &Notifier{
		clock:    clock,
		ttl:      [2]time.Duration{KindError: errorTTL, KindSuccess: successTTL},
		onChange: onChange,
	}
}

// Post replaces the message of the given kind and re-arms its timer. An
// empty text clears the slot.
func (n *Notifier) Post(kind Kind, text string) {
	n.mu.Lock()
	s := &n.slots[kind]
	n.reset(s)
	if text != "" {
		s.text = text
		gen := s.gen
		s.timer = n.clock.AfterFunc(n.ttl[kind], func() { n.expire(kind, gen) })
	}
	n.mu.Unlock()
	n.changed()
}

// Message returns the active text of the given kind, or "".
func (n *Notifier) Message(kind Kind) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.slots[kind].text
}

// Dismiss clears both slots and cancels their timers.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.reset(&n.slots[KindError])
	n.reset(&n.slots[KindSuccess])
	n.mu.Unlock()
	n.changed()
}

func (n *Notifier) reset(s *slot) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.text = ""
}

func (n *Notifier) expire(kind Kind, gen uint64) {
	n.mu.Lock()
	s := &n.slots[kind]
	if s.gen != gen {
		n.mu.Unlock()
		return
	}
	s.text = ""
	s.timer = nil
	n.mu.Unlock()
	n.changed()
}

func (n *Notifier) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}
