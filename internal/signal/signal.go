package signal

// Signal is an ordered list of callbacks invoked synchronously on Emit.
//
// Callbacks run in connection order. A callback connected while an Emit is in
// progress is not called by that Emit. A callback disconnected while an Emit
// is in progress is skipped if it has not run yet.
type Signal[E any] struct {
	slots  []*slot[E]
	nextID uint64
}

type slot[E any] struct {
	id        uint64
	fn        func(E)
	connected bool
}

// Connection identifies a connected callback.
type Connection struct {
	disconnect func()
}

// Disconnect removes the callback. Calling it more than once is harmless.
func (c Connection) Disconnect() {
	if c.disconnect != nil {
		c.disconnect()
	}
}

// Connect appends fn to the callback list.
func (s *Signal[E]) Connect(fn func(E)) Connection {
	s.nextID++
	sl := &slot[E]{id: s.nextID, fn: fn, connected: true}
	s.slots = append(s.slots, sl)
	return Connection{disconnect: func() { s.remove(sl.id) }}
}

// Emit calls every connected callback with e.
func (s *Signal[E]) Emit(e E) {
	s.EmitWhile(e, nil)
}

// EmitWhile calls connected callbacks with e until cont reports false.
// cont is checked after each callback; a nil cont never stops.
func (s *Signal[E]) EmitWhile(e E, cont func() bool) {
	snapshot := make([]*slot[E], len(s.slots))
	copy(snapshot, s.slots)
	for _, sl := range snapshot {
		if !sl.connected {
			continue
		}
		sl.fn(e)
		if cont != nil && !cont() {
			return
		}
	}
}

// Len returns the number of connected callbacks.
func (s *Signal[E]) Len() int {
	return len(s.slots)
}

// Clear disconnects every callback.
func (s *Signal[E]) Clear() {
	for _, sl := range s.slots {
		sl.connected = false
	}
	s.slots = nil
}

func (s *Signal[E]) remove(id uint64) {
	for i, sl := range s.slots {
		if sl.id == id {
			sl.connected = false
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return
		}
	}
}
