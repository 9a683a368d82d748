package service

import "sync"

// ListenerRegistry collects the unsubscribe functions of one session so that
// logout can stop every live subscription before the token is dropped.
type ListenerRegistry struct {
	mu        sync.Mutex
	listeners []Unsubscribe
	closed    bool
}

func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

// Register adds unsubscribe to the registry. Once the registry is cleared
// the function is called right away.
func (r *ListenerRegistry) Register(unsubscribe Unsubscribe) {
	if unsubscribe == nil {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		unsubscribe()
		return
	}
	r.listeners = append(r.listeners, unsubscribe)
	r.mu.Unlock()
}

// Clear calls every registered unsubscribe and closes the registry.
func (r *ListenerRegistry) Clear() {
	r.mu.Lock()
	listeners := r.listeners
	r.listeners = nil
	r.closed = true
	r.mu.Unlock()

	for _, unsubscribe := range listeners {
		unsubscribe()
	}
}

func (r *ListenerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}
