// Package review implements the optimistic list reconciliation used by the
// dashboards: mutate local state immediately on user action, commit to the
// server in the background, roll back to the exact previous state on failure.
package review

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/intellirefer/referctl/pkg/metrics"
)

type ActionKind string

const (
	// ActionRemove filters the item out of the list immediately.
	ActionRemove ActionKind = "remove"
	// ActionUpdateStatus rewrites only the matching item, leaving the rest
	// untouched.
	ActionUpdateStatus ActionKind = "update-status"
)

var (
	// ErrActionPending is returned when an item already has a commit in
	// flight. Actions on one item are serialized, not raced.
	ErrActionPending = errors.New("an action is already pending for this item")
	ErrItemNotFound  = errors.New("item not found")
)

// Action describes one user-triggered mutation.
type Action[T any] struct {
	Kind ActionKind
	// Name labels the action in notifications and metrics, e.g. "select".
	Name string
	// Mutate returns the locally updated item. Only consulted for
	// ActionUpdateStatus.
	Mutate func(T) T
	// Commit confirms the mutation with the server.
	Commit func(ctx context.Context, itemID int64) error
}

// Outcome reports the resolution of a commit to the view.
type Outcome struct {
	ItemID     int64
	Action     string
	RolledBack bool
	Err        error
}

// Controller owns one tracked list. List membership and status always
// reflect the last confirmed server state, except during the in-flight
// window of a pending action.
type Controller[T any] struct {
	l       sync.Mutex
	items   []T
	key     func(T) int64
	pending map[int64]struct{}
	notify  func(Outcome)
	wg      sync.WaitGroup
	logger  *zap.SugaredLogger
}

// NewController builds a controller keyed by the given id extractor. The
// notify callback receives every commit or rollback outcome; it may be nil.
func NewController[T any](key func(T) int64, notify func(Outcome)) *Controller[T] {
	if notify == nil {
		notify = func(Outcome) {}
	}
	return &Controller[T]{
		key:     key,
		pending: make(map[int64]struct{}),
		notify:  notify,
		logger:  zap.S().Named("review"),
	}
}

// Replace loads a fresh server snapshot into the controller.
func (c *Controller[T]) Replace(items []T) {
	c.l.Lock()
	defer c.l.Unlock()
	c.items = append([]T(nil), items...)
}

// ReplaceIfIdle swaps in a fresh snapshot only when no commit is in flight,
// so a background refresh can never clobber an optimistic mutation.
func (c *Controller[T]) ReplaceIfIdle(items []T) bool {
	c.l.Lock()
	defer c.l.Unlock()
	if len(c.pending) > 0 {
		return false
	}
	c.items = append([]T(nil), items...)
	return true
}

// Items returns a copy of the current list.
func (c *Controller[T]) Items() []T {
	c.l.Lock()
	defer c.l.Unlock()
	return append([]T(nil), c.items...)
}

// InFlight returns the number of pending commits.
func (c *Controller[T]) InFlight() int {
	c.l.Lock()
	defer c.l.Unlock()
	return len(c.pending)
}

// Wait blocks until every pending commit has resolved.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// PerformAction applies the local mutation synchronously and issues the
// commit asynchronously. On commit failure only the failed item's mutation
// is undone, a removed item returning to its former position, and the
// outcome is surfaced through notify.
func (c *Controller[T]) PerformAction(ctx context.Context, itemID int64, action Action[T]) error {
	c.l.Lock()

	if _, busy := c.pending[itemID]; busy {
		c.l.Unlock()
		return ErrActionPending
	}

	index := -1
	var before T
	for i, item := range c.items {
		if c.key(item) == itemID {
			index, before = i, item
			break
		}
	}
	if index == -1 {
		c.l.Unlock()
		return ErrItemNotFound
	}

	switch action.Kind {
	case ActionRemove:
		next := make([]T, 0, len(c.items))
		for _, item := range c.items {
			if c.key(item) != itemID {
				next = append(next, item)
			}
		}
		c.items = next
	case ActionUpdateStatus:
		next := make([]T, 0, len(c.items))
		for _, item := range c.items {
			if c.key(item) == itemID {
				item = action.Mutate(item)
			}
			next = append(next, item)
		}
		c.items = next
	}

	c.pending[itemID] = struct{}{}
	c.l.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := action.Commit(ctx, itemID)

		c.l.Lock()
		delete(c.pending, itemID)
		if err != nil {
			c.rollback(action.Kind, itemID, before, index)
		}
		c.l.Unlock()

		if err != nil {
			metrics.IncreaseRollbacksTotalMetric(action.Name)
			c.logger.Warnf("action %s on item %d failed, list restored: %v", action.Name, itemID, err)
			c.notify(Outcome{ItemID: itemID, Action: action.Name, RolledBack: true, Err: err})
			return
		}
		metrics.IncreaseCommitsTotalMetric(action.Name)
		c.notify(Outcome{ItemID: itemID, Action: action.Name})
	}()

	return nil
}

// rollback undoes a single item's mutation. Mutations on other items
// confirmed while this commit was in flight must survive, so restoring a
// full pre-action snapshot is not an option. Called with the lock held.
func (c *Controller[T]) rollback(kind ActionKind, itemID int64, before T, index int) {
	switch kind {
	case ActionRemove:
		if index > len(c.items) {
			index = len(c.items)
		}
		c.items = append(c.items[:index], append([]T{before}, c.items[index:]...)...)
	case ActionUpdateStatus:
		for i := range c.items {
			if c.key(c.items[i]) == itemID {
				c.items[i] = before
				return
			}
		}
	}
}
