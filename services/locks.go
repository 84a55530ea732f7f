package services

import "sync"

// RoomLocker is a lock table keyed by room ID. Every state-changing unit
// in the coordinator holds the lock for its room from before the first
// read until after the post-commit hooks, so racing requests on the same
// room form a queue instead of a race. Different rooms never block each
// other.
type RoomLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewRoomLocker() *RoomLocker {
	return &RoomLocker{locks: make(map[uint]*sync.Mutex)}
}

func (rl *RoomLocker) lockFor(roomID uint) *sync.Mutex {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		rl.locks[roomID] = l
	}
	return l
}

// Lock blocks until the caller holds the exclusive lock for roomID.
func (rl *RoomLocker) Lock(roomID uint) {
	rl.lockFor(roomID).Lock()
}

// Unlock releases the lock for roomID.
func (rl *RoomLocker) Unlock(roomID uint) {
	rl.lockFor(roomID).Unlock()
}
