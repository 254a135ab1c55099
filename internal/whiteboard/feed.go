package whiteboard

// feed is a minimal ordered publisher. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type feed[T any] struct {
	next     int
	handlers map[int]func(T)
	order    []int
}

func (f *feed[T]) subscribe(fn func(T)) func() {
	if f.handlers == nil {
		f.handlers = make(map[int]func(T))
	}
	id := f.next
	f.next++
	f.handlers[id] = fn
	f.order = append(f.order, id)
	return func() {
		if _, ok := f.handlers[id]; !ok {
			return
		}
		delete(f.handlers, id)
		for i, v := range f.order {
			if v == id {
				f.order = append(f.order[:i:i], f.order[i+1:]...)
				break
			}
		}
	}
}

func (f *feed[T]) publish(v T) {
	ids := append([]int(nil), f.order...)
	for _, id := range ids {
		if fn, ok := f.handlers[id]; ok {
			fn(v)
		}
	}
}
