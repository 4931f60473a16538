package stream

import "sync"

// Delegate is a list of callbacks fired together
type Delegate[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]func(T)
	order    []uint64
}

// Add subscribes fn and returns a func that unsubscribes it
func (d *Delegate[T]) Add(fn func(T)) (remove func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = make(map[uint64]func(T))
	}
	d.nextID++
	id := d.nextID
	d.handlers[id] = fn
	d.order = append(d.order, id)

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.handlers[id]; !ok {
			return
		}
		delete(d.handlers, id)
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch calls every handler in subscription order
// Handlers may subscribe or unsubscribe while being dispatched
func (d *Delegate[T]) Dispatch(v T) {
	d.mu.Lock()
	fns := make([]func(T), 0, len(d.order))
	for _, id := range d.order {
		fns = append(fns, d.handlers[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of subscribers
func (d *Delegate[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}
