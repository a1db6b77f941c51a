// Package refresh implements single-flight periodic refresh channels.
//
// A Channel owns one recurring timer and one Guard. Every tick evaluates the
// channel's scope predicate and its pause flag, then triggers the guard, which
// runs the task unless a previous invocation is still in flight. Ticks never
// queue: a tick that lands while the task is running is dropped.
//
// The FocusGate toggles a PauseState in response to form focus events, with a
// debounced resume that is held while there are unsaved edits.
package refresh
