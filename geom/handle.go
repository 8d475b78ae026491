package geom

// shared is the refcounted box a Handle points to. Multiple Handles
// may point at the same shared box; Write() detaches one onto its own
// box when more than one Handle observes it.
type shared struct {
	c   *Container
	ref *int
}

// Handle is a copy-on-write shared reference to a Container. The zero
// value is a valid, empty (nil-container) handle.
type Handle struct {
	s shared
}

// NewHandle wraps c in a fresh, uniquely-owned Handle. c may be nil.
func NewHandle(c *Container) Handle {
	n := 1
	return Handle{shared{c: c, ref: &n}}
}

// IsNil reports whether the handle holds no container.
func (h Handle) IsNil() bool { return h.s.c == nil }

// Read returns an immutable view of the container. It never copies.
func (h Handle) Read() *Container { return h.s.c }

// UseCount returns the number of Handles sharing the same container.
func (h Handle) UseCount() int {
	if h.s.ref == nil {
		return 0
	}
	return *h.s.ref
}

// IsUnique reports whether no other Handle shares this container.
func (h Handle) IsUnique() bool { return h.UseCount() <= 1 }

// Clone returns a Handle to a new, always-independent deep copy.
func (h Handle) Clone() Handle {
	if h.s.c == nil {
		return Handle{}
	}
	return NewHandle(h.s.c.Clone())
}

// Retain returns a new Handle sharing the same container, incrementing
// the shared refcount. Used wherever a cache or a downstream input
// port keeps its own reference to an upstream output (spec.md §4.6).
func (h Handle) Retain() Handle {
	if h.s.ref != nil {
		*h.s.ref++
	}
	return h
}

// Release decrements the shared refcount. It must be called exactly
// once for every Retain (including the one implied by NewHandle).
// Callers that let a Handle go out of scope without ever sharing it
// need not call Release explicitly; it exists for code paths (cache
// eviction, port invalidation) that explicitly drop a shared reference
// before the handle itself is discarded.
func (h Handle) Release() {
	if h.s.ref != nil {
		*h.s.ref--
	}
}

// MakeUnique ensures the handle is the sole owner of its container,
// deep-cloning if use_count > 1 (spec.md §4.4, §8 invariant 4). It
// returns the (possibly new) unique Handle; the receiver's sharers, if
// any, continue to observe the pre-write container unchanged.
func (h Handle) MakeUnique() Handle {
	if h.IsUnique() || h.s.c == nil {
		return h
	}
	h.Release()
	return NewHandle(h.s.c.Clone())
}

// Write returns a mutable view, triggering MakeUnique first. Callers
// that intend further in-place mutation should retain the returned
// Handle (not the original) so subsequent writes see use_count == 1.
func (h *Handle) Write() *Container {
	*h = h.MakeUnique()
	return h.s.c
}
