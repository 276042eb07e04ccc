// Package notify holds the listener list shared by the stores.
package notify

import "sync"

// List is an ordered set of listeners. The zero value is ready to use.
type List[T any] struct {
	mu     sync.Mutex
	fns    map[int]func(T)
	order  []int
	nextID int
}

// Add registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (l *List[T]) Add(fn func(T)) func() {
	l.mu.Lock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.order = append(l.order, id)
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *List[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fns, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			return
		}
	}
}

// Notify calls every listener in registration order. The list lock is not
// held while listeners run, so they may add or remove listeners.
func (l *List[T]) Notify(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
