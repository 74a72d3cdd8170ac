// Package events delivers change notifications for domain records so that
// summaries (balances, progress, metrics) can react to writes explicitly.
package events

import (
	"sync"
	"time"
)

// Kind identifies what changed.
type Kind string

const (
	SplitBillCreated    Kind = "split_bill.created"
	SplitBillUpdated    Kind = "split_bill.updated"
	SplitBillDeleted    Kind = "split_bill.deleted"
	GroupExpenseCreated Kind = "group_expense.created"
	GroupExpenseSettled Kind = "group_expense.settled"
	TransactionCreated  Kind = "transaction.created"
	SubscriptionCreated Kind = "subscription.created"
	SubscriptionDeleted Kind = "subscription.deleted"
)

// Event describes one committed change. OwnerID is the user whose data
// changed.
type Event struct {
	Kind     Kind
	EntityID string
	OwnerID  string
	At       time.Time
}

// Handler receives events. Handlers run synchronously on the publishing
// goroutine and must not block.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus fans events out to subscribers in subscription order.
// It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every current subscriber. A zero At is set to now.
// Publishing on a nil Bus is a no-op.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.subs))
	for i, s := range b.subs {
		handlers[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
