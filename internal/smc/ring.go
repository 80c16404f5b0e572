package smc

// boundedList is a fixed-capacity, most-recent-first list. Pushing onto a full
// list overwrites the oldest entry.
type boundedList[T any] struct {
	buf  []T
	head int
	n    int
}

func newBoundedList[T any](capacity int) *boundedList[T] {
	return &boundedList[T]{buf: make([]T, capacity)}
}

func (l *boundedList[T]) Len() int { return l.n }

func (l *boundedList[T]) Cap() int { return len(l.buf) }

// At returns the i-th most recent entry.
func (l *boundedList[T]) At(i int) T {
	return l.buf[(l.head+i)%len(l.buf)]
}

func (l *boundedList[T]) set(i int, v T) {
	l.buf[(l.head+i)%len(l.buf)] = v
}

// PushFront inserts v as the most recent entry and reports whether the oldest was evicted.
func (l *boundedList[T]) PushFront(v T) bool {
	if len(l.buf) == 0 {
		return false
	}
	l.head = (l.head - 1 + len(l.buf)) % len(l.buf)
	l.buf[l.head] = v
	if l.n < len(l.buf) {
		l.n++
		return false
	}
	return true
}

// RemoveIf drops every entry matching drop, keeping the order of the rest.
func (l *boundedList[T]) RemoveIf(drop func(T) bool) int {
	w := 0
	for i := 0; i < l.n; i++ {
		v := l.At(i)
		if drop(v) {
			continue
		}
		l.set(w, v)
		w++
	}
	removed := l.n - w
	var zero T
	for i := w; i < l.n; i++ {
		l.set(i, zero)
	}
	l.n = w
	return removed
}

// Head returns up to k most recent entries, newest first.
func (l *boundedList[T]) Head(k int) []T {
	if k > l.n || k < 0 {
		k = l.n
	}
	out := make([]T, k)
	for i := range out {
		out[i] = l.At(i)
	}
	return out
}

// Items returns every entry, newest first.
func (l *boundedList[T]) Items() []T {
	return l.Head(l.n)
}
