package websocket

import (
	"hash/fnv"
	"sync"
)

const gameLockStripes = 64

// stripedLock - a fixed set of mutexes picked by key hash. Two keys may share a stripe; one key always maps
// to the same stripe.
type stripedLock struct {
	stripes []sync.Mutex
}

func newStripedLock(n int) *stripedLock {
	return &stripedLock{stripes: make([]sync.Mutex, n)}
}

// lock - locks the stripe for key and returns its unlock.
func (that *stripedLock) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	mu := &that.stripes[h.Sum32()%uint32(len(that.stripes))]
	mu.Lock()

	return mu.Unlock
}
