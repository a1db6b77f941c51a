package refresh

import "sync/atomic"

// View holds the identifier of the currently active view.
type View struct {
	current atomic.Pointer[string]
}

// NewView returns a View set to initial.
func NewView(initial string) *View {
	v := &View{}
	v.current.Store(&initial)
	return v
}

// Current returns the active view id.
func (v *View) Current() string {
	if p := v.current.Load(); p != nil {
		return *p
	}
	return ""
}

// Set switches the active view and returns the previous one.
func (v *View) Set(next string) (prev string) {
	if p := v.current.Swap(&next); p != nil {
		return *p
	}
	return ""
}

// Is reports whether id is the active view.
func (v *View) Is(id string) bool {
	return v.Current() == id
}

// When returns a scope predicate that is true while id is the active view.
func (v *View) When(id string) func() bool {
	return func() bool { return v.Is(id) }
}
