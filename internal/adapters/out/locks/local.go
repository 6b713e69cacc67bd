package locks

import (
	"context"
	"sync"

	"storefront/internal/core/domain/model/kernel"
)

// LocalOrderLocker is an in-process keyed mutex. Entries are dropped once no
// goroutine holds or waits for them.
type LocalOrderLocker struct {
	mu      sync.Mutex
	entries map[kernel.UUID]*entry
}

type entry struct {
	slot chan struct{}
	refs int
}

func NewLocalOrderLocker() *LocalOrderLocker {
	return &LocalOrderLocker{entries: make(map[kernel.UUID]*entry)}
}

// Acquire waits for the order lock or for ctx to end.
func (l *LocalOrderLocker) Acquire(ctx context.Context, orderID kernel.UUID) (func(), error) {
	e := l.ref(orderID)

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		l.unref(orderID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			l.unref(orderID, e)
		})
	}, nil
}

func (l *LocalOrderLocker) ref(id kernel.UUID) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		l.entries[id] = e
	}
	e.refs++
	return e
}

func (l *LocalOrderLocker) unref(id kernel.UUID, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

// held reports the number of orders with a holder or waiter.
func (l *LocalOrderLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
