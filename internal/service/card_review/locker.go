package card_review

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MutexLocker is an in-process Locker. Lock entries are dropped once no
// goroutine holds or waits for them.
type MutexLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*cardLock
}

type cardLock struct {
	ch   chan struct{} // holds one token while the card is locked
	refs int
}

var _ Locker = (*MutexLocker)(nil)

// NewMutexLocker returns an empty MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{locks: make(map[uuid.UUID]*cardLock)}
}

// Lock blocks until cardID is free or ctx ends.
func (l *MutexLocker) Lock(ctx context.Context, cardID uuid.UUID) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[cardID]
	if !ok {
		entry = &cardLock{ch: make(chan struct{}, 1)}
		l.locks[cardID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(cardID, entry, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(cardID, entry, true) })
	}, nil
}

func (l *MutexLocker) release(cardID uuid.UUID, entry *cardLock, held bool) {
	if held {
		<-entry.ch
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, cardID)
	}
}

