package refresh

import (
	"sync"
	"sync/atomic"
)

// BusySignal reports how many foreground agent tasks are in progress.
type BusySignal interface {
	ActiveTaskCount() int
}

// BusyFunc adapts a plain function to BusySignal.
type BusyFunc func() int

func (f BusyFunc) ActiveTaskCount() int { return f() }

// BusyCounter is the in-process BusySignal. The foreground executor calls
// Begin when a task starts and the returned done func when it ends.
type BusyCounter struct {
	n        atomic.Int64
	OnChange func(active int)
}

// Begin marks one task active. The returned func is safe to call more than once.
func (c *BusyCounter) Begin() (done func()) {
	c.changed(c.n.Add(1))
	var once sync.Once
	return func() {
		once.Do(func() { c.changed(c.n.Add(-1)) })
	}
}

// Set overrides the count, for executors that report a total instead of
// bracketing each task. Negative values are treated as zero.
func (c *BusyCounter) Set(active int) {
	if active < 0 {
		active = 0
	}
	c.n.Store(int64(active))
	c.changed(int64(active))
}

// ActiveTaskCount implements BusySignal.
func (c *BusyCounter) ActiveTaskCount() int {
	n := c.n.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

func (c *BusyCounter) changed(n int64) {
	if c.OnChange != nil {
		c.OnChange(int(n))
	}
}
