package articles

import "sync"

// Observable is a read-only, push-updated value. Subscribers are called
// from the facade's event loop, one at a time, after every field of the
// step has been committed.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	equal  func(a, b T) bool
	subs   map[uint64]func(T)
	nextID uint64
	dirty  bool
}

func newObservable[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{
		value: initial,
		equal: equal,
		subs:  make(map[uint64]func(T)),
	}
}

func newComparable[T comparable](initial T) *Observable[T] {
	return newObservable(initial, func(a, b T) bool { return a == b })
}

// Get returns the current value
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Subscribe registers fn for future changes and returns a function that
// removes it. Use Get for the value at subscription time.
func (o *Observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// set stores v and marks the value dirty unless it equals the current one
func (o *Observable[T]) set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.equal != nil && o.equal(o.value, v) {
		return
	}
	o.value = v
	o.dirty = true
}

// flush notifies subscribers if the value changed since the last flush
func (o *Observable[T]) flush() {
	o.mu.Lock()
	if !o.dirty {
		o.mu.Unlock()
		return
	}
	o.dirty = false
	v := o.value
	fns := make([]func(T), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (o *Observable[T]) clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = make(map[uint64]func(T))
}
