package exchange

import "sync"

// Gate serializes exchanges per seeker: at most one question may be in flight
// for an identity at any time. State lives only in process memory; losing it
// on restart just means no lock is held, which is safe.
type Gate struct {
	locks sync.Map // user id -> chan struct{} with capacity 1
}

// creates an empty gate
func NewGate() *Gate {
	return &Gate{}
}

// attempts to take the lock for an identity without blocking
func (g *Gate) TryAcquire(id string) bool {
	lock, _ := g.locks.LoadOrStore(id, make(chan struct{}, 1))

	select {
	case lock.(chan struct{}) <- struct{}{}:
		return true
	default:
		return false
	}
}

// clears the lock for an identity; safe to call when not held
func (g *Gate) Release(id string) {
	lock, ok := g.locks.Load(id)
	if !ok {
		return
	}

	select {
	case <-lock.(chan struct{}):
	default:
	}
}
