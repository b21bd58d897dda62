// Package listctl keeps a local, optimistically updated copy of a remote
// resource collection for an admin page. It owns the working draft, a
// loading flag and two self-clearing notification slots.
//
// Remote failures never reach the caller: their message is posted to the
// error slot. The error returns of the controller methods only report misuse,
// such as editing a record that is not in the collection.
package listctl

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/EagleChen/mapmutex"
)

// Default success messages.
const (
	DefaultSavedMessage   = "Record saved successfully"
	DefaultDeletedMessage = "Record deleted successfully"
)

var (
	ErrNotInCollection = errors.New("record is not in the collection")
	ErrNoDraft         = errors.New("no record is being edited")
	ErrNotEditable     = errors.New("record type cannot be edited by field name")
	ErrMissingID       = errors.New("record has no id")
	ErrBusy            = errors.New("another change to this record is still in progress")
)

// Options tune a Controller. The zero value is usable.
type Options struct {
	ErrorTTL       time.Duration
	SuccessTTL     time.Duration
	SavedMessage   string
	DeletedMessage string
	Clock          Clock
	Logger         *slog.Logger
	// OnChange runs after every state change, without locks held. It may be
	// called from timer goroutines.
	OnChange func()
}

// State is a point-in-time copy of the controller state.
type State[T Entity] struct {
	Items          []T
	Draft          T
	Editing        bool
	Loading        bool
	Loaded         bool
	ErrorMessage   string
	SuccessMessage string
}

// Controller mirrors one remote collection of value records. All methods are
// safe for concurrent use.
type Controller[T Entity] struct {
	remote Remote[T]
	opts   Options
	log    *slog.Logger
	notes  *Notifier
	locks  *mapmutex.Mutex

	mu       sync.Mutex
	items    []T
	draft    T
	editing  bool
	inflight int
	loaded   bool

	fetchGen    uint64
	cancelFetch context.CancelFunc
}

// New creates a Controller with an empty collection.
func New[T Entity](remote Remote[T], opts Options) *Controller[T] {
	if opts.SavedMessage == "" {
		opts.SavedMessage = DefaultSavedMessage
	}
	if opts.DeletedMessage == "" {
		opts.DeletedMessage = DefaultDeletedMessage
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller[T]{
		remote: remote,
		opts:   opts,
		log:    log,
		notes:  NewNotifier(opts.Clock, opts.ErrorTTL, opts.SuccessTTL, opts.OnChange),
		// Backoff doubles from 1ms up to 100ms; a writer blocked on the same
		// id gives up with ErrBusy after roughly five seconds.
		locks: mapmutex.NewCustomizedMapMutex(50, 100000000, 1000000, 2, 0.2),
	}
}

// Initialize replaces the collection with the remote list. When calls
// overlap, the newest one wins and older fetches are canceled.
func (c *Controller[T]) Initialize(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.fetchGen++
	gen := c.fetchGen
	c.cancelFetch = cancel
	c.inflight++
	c.mu.Unlock()
	c.changed()

	records, err := c.remote.List(ctx)

	c.mu.Lock()
	c.inflight--
	current := gen == c.fetchGen
	if current {
		c.cancelFetch = nil
		if err == nil {
			c.items = dedupe(records)
			c.loaded = true
		}
	}
	c.mu.Unlock()

	switch {
	case !current:
		c.log.Debug("discarding superseded list result", "error", err)
		c.changed()
	case err != nil:
		c.log.Warn("listing records failed", "error", err)
		c.notes.Post(KindError, err.Error())
	default:
		c.changed()
	}
}

// BeginCreate opens the edit surface with an empty draft.
func (c *Controller[T]) BeginCreate() {
	var zero T
	c.mu.Lock()
	c.draft = zero
	c.editing = true
	c.mu.Unlock()
	c.changed()
}

// BeginEdit opens the edit surface with a copy of the collection's version of
// record.
func (c *Controller[T]) BeginEdit(record T) error {
	id := record.GetID()
	c.mu.Lock()
	i := slices.IndexFunc(c.items, func(r T) bool { return r.GetID() == id })
	if id == 0 || i < 0 {
		c.mu.Unlock()
		return ErrNotInCollection
	}
	c.draft = c.items[i]
	c.editing = true
	c.mu.Unlock()
	c.changed()
	return nil
}

// Draft returns a copy of the working draft and whether one is open.
func (c *Controller[T]) Draft() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft, c.editing
}

// SetDraftField assigns a field of the open draft from text.
func (c *Controller[T]) SetDraftField(name, value string) error {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return ErrNoDraft
	}
	setter, ok := any(&c.draft).(FieldSetter)
	if !ok {
		c.mu.Unlock()
		return ErrNotEditable
	}
	err := setter.SetField(name, value)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.changed()
	return nil
}

// EditDraft applies fn to the open draft.
func (c *Controller[T]) EditDraft(fn func(draft *T)) error {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return ErrNoDraft
	}
	fn(&c.draft)
	c.mu.Unlock()
	c.changed()
	return nil
}

// CancelEdit discards the draft and closes the edit surface.
func (c *Controller[T]) CancelEdit() {
	var zero T
	c.mu.Lock()
	c.draft = zero
	c.editing = false
	c.mu.Unlock()
	c.changed()
}

// SaveDraft saves the open draft.
func (c *Controller[T]) SaveDraft(ctx context.Context) error {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return ErrNoDraft
	}
	draft := c.draft
	c.mu.Unlock()
	c.Save(ctx, draft)
	return nil
}

// Save creates draft when it has no id and updates it otherwise. On success
// the server's version replaces any local record with the same id and the
// draft is discarded. The edit surface closes either way.
func (c *Controller[T]) Save(ctx context.Context, draft T) {
	c.begin()
	id := draft.GetID()

	var (
		saved T
		err   error
	)
	if id != 0 && !c.locks.TryLock(id) {
		err = ErrBusy
	} else {
		if id == 0 {
			saved, err = c.remote.Create(ctx, draft)
		} else {
			saved, err = c.remote.Update(ctx, draft)
			c.locks.Unlock(id)
		}
	}

	var zero T
	c.mu.Lock()
	c.inflight--
	c.editing = false
	if err == nil {
		c.items = upsert(c.items, saved)
		c.draft = zero
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("saving record failed", "id", id, "error", err)
		c.notes.Post(KindError, err.Error())
		return
	}
	c.log.Debug("record saved", "id", saved.GetID())
	c.notes.Post(KindSuccess, c.opts.SavedMessage)
}

// Delete removes record remotely, then locally.
func (c *Controller[T]) Delete(ctx context.Context, record T) error {
	id := record.GetID()
	if id == 0 {
		return ErrMissingID
	}
	c.begin()

	var err error
	if !c.locks.TryLock(id) {
		err = ErrBusy
	} else {
		err = c.remote.Delete(ctx, id)
		c.locks.Unlock(id)
	}

	c.mu.Lock()
	c.inflight--
	if err == nil {
		c.items = removeID(c.items, id)
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("deleting record failed", "id", id, "error", err)
		c.notes.Post(KindError, err.Error())
		return nil
	}
	c.log.Debug("record deleted", "id", id)
	c.notes.Post(KindSuccess, c.opts.DeletedMessage)
	return nil
}

// DismissNotifications clears both notification slots.
func (c *Controller[T]) DismissNotifications() {
	c.notes.Dismiss()
}

// Items returns a copy of the collection in its current order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Find returns the collection's record with the given id.
func (c *Controller[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.items {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Snapshot returns a copy of the whole state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	s := State[T]{
		Items:   slices.Clone(c.items),
		Draft:   c.draft,
		Editing: c.editing,
		Loading: c.inflight > 0,
		Loaded:  c.loaded,
	}
	c.mu.Unlock()
	s.ErrorMessage = c.notes.Message(KindError)
	s.SuccessMessage = c.notes.Message(KindSuccess)
	return s
}

func (c *Controller[T]) begin() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	c.changed()
}

func (c *Controller[T]) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}
