// Package observer delivers game state changes to subscribed listeners.
package observer

import (
	"fmt"
	"sync"

	"bauernschach/internal/game"
)

// Listener receives a snapshot after every successful state change. Listeners
// must not call back into the engine that notifies them and must be
// comparable, typically pointers.
type Listener interface {
	OnState(snapshot game.Snapshot)
}

// FuncListener adapts a function; each instance has its own identity
type FuncListener struct {
	fn func(game.Snapshot)
}

func NewFunc(fn func(game.Snapshot)) *FuncListener {
	return &FuncListener{fn: fn}
}

func (f *FuncListener) OnState(s game.Snapshot) {
	f.fn(s)
}

// Registry keeps listeners in subscription order
type Registry struct {
	mu        sync.Mutex
	listeners []Listener
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe panics when l is nil or already subscribed
func (r *Registry) Subscribe(l Listener) {
	if l == nil {
		panic("observer: subscribe nil listener")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(l) >= 0 {
		panic(fmt.Sprintf("observer: listener %T already subscribed", l))
	}
	r.listeners = append(r.listeners, l)
}

// Unsubscribe is a no-op for listeners that are not subscribed
func (r *Registry) Unsubscribe(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(l); i >= 0 {
		r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
	}
	if r.indexOf(l) >= 0 {
		panic(fmt.Sprintf("observer: listener %T still subscribed", l))
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Notify calls every listener synchronously in subscription order
func (r *Registry) Notify(s game.Snapshot) {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.OnState(s)
	}
}

func (r *Registry) indexOf(l Listener) int {
	for i, existing := range r.listeners {
		if existing == l {
			return i
		}
	}
	return -1
}
