package identity

import "sync"

// Handle undoes a registration. Destroy is idempotent: the first call runs the
// release function, every later call is a no-op.
type Handle struct {
	once    sync.Once
	destroy func()
}

// NewHandle wraps a release function. A nil function yields an inert handle.
func NewHandle(destroy func()) *Handle {
	return &Handle{destroy: destroy}
}

// Destroy releases whatever the handle guards, exactly once.
func (h *Handle) Destroy() {
	h.once.Do(func() {
		if h.destroy != nil {
			h.destroy()
		}
	})
}

// Composite bundles several handles into one; destroying it destroys each
// constituent in order.
func Composite(handles ...*Handle) *Handle {
	return NewHandle(func() {
		for _, h := range handles {
			if h != nil {
				h.Destroy()
			}
		}
	})
}
