// Package event is a tiny in-process dispatcher. The order workflow
// fires events like "order.placed" and the kernel subscribes listeners
// that fan the payload out to the live back-office feed.
package event

import "sync"

// Handler receives the payload the emitter fired with.
type Handler func(payload interface{})

var (
	mu        sync.RWMutex
	listeners = map[string][]Handler{}
)

// Listen subscribes a handler to an event name. Handlers registered for
// the same name run in registration order on Fire.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], h)
}

// snapshot copies the handler list so emitters never hold the lock
// while user code runs.
func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(listeners[name]))
	copy(hs, listeners[name])
	return hs
}

// Fire runs every listener for name synchronously, in order.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync runs each listener on its own goroutine and returns
// immediately. Emitters on the request path use this so a slow
// listener never delays the HTTP response.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		go h(payload)
	}
}

// Flush drops every registered listener. Tests use it to isolate
// subscriptions between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Handler{}
}
