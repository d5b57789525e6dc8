package clientview

import (
	"context"
	"sync"
)

// keyedLock не более одного владельца на ключ. В отличие от sync.Mutex
// ожидание прерывается контекстом.
type keyedLock struct {
	mu    sync.Mutex
	locks map[int64]*idLock
}

type idLock struct {
	slot chan struct{}
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[int64]*idLock)}
}

func (k *keyedLock) acquire(ctx context.Context, id int64) error {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &idLock{slot: make(chan struct{}, 1)}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.unref(id, l)
		return ctx.Err()
	}
}

func (k *keyedLock) release(id int64) {
	k.mu.Lock()
	l := k.locks[id]
	k.mu.Unlock()

	<-l.slot
	k.unref(id, l)
}

func (k *keyedLock) unref(id int64, l *idLock) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(k.locks, id)
	}
}
