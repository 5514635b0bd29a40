package snapshot

import (
	"sync"
)

// Updates carries the ETag of each newly published snapshot.
type Updates = chan string

var (
	mu   sync.Mutex
	subs = make(map[Updates]struct{})
)

// Subscribe registers a listener. The returned func unregisters it and
// closes the channel; calling it more than once is harmless.
func Subscribe() (Updates, func()) {
	ch := make(Updates, 1)
	mu.Lock()
	subs[ch] = struct{}{}
	mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			mu.Lock()
			delete(subs, ch)
			close(ch)
			mu.Unlock()
		})
	}
	return ch, unsub
}

// Subscribers reports how many listeners are registered.
func Subscribers() int {
	mu.Lock()
	defer mu.Unlock()
	return len(subs)
}

// publishUpdate never blocks; a listener that has not drained its previous
// ETag misses this one.
func publishUpdate(etag string) {
	mu.Lock()
	for ch := range subs {
		select {
		case ch <- etag:
		default:
		}
	}
	mu.Unlock()
}
