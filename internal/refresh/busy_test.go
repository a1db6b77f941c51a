package refresh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusyCounter(t *testing.T) {
	var seen []int
	c := &BusyCounter{OnChange: func(n int) { seen = append(seen, n) }}
	require.Equal(t, 0, c.ActiveTaskCount())

	done1 := c.Begin()
	done2 := c.Begin()
	require.Equal(t, 2, c.ActiveTaskCount())

	done1()
	done1()
	require.Equal(t, 1, c.ActiveTaskCount(), "done is idempotent")

	done2()
	require.Equal(t, 0, c.ActiveTaskCount())
	require.Equal(t, []int{1, 2, 1, 0}, seen)
}

func TestBusyCounterSet(t *testing.T) {
	c := &BusyCounter{}
	c.Set(4)
	require.Equal(t, 4, c.ActiveTaskCount())
	c.Set(-3)
	require.Equal(t, 0, c.ActiveTaskCount())
}

func TestBusyFunc(t *testing.T) {
	var s BusySignal = BusyFunc(func() int { return 7 })
	require.Equal(t, 7, s.ActiveTaskCount())
}
