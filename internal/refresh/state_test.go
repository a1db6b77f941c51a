package refresh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name string
		snap tickSnapshot
		want Outcome
	}{
		{"stopped wins", tickSnapshot{live: false, enabled: true, paused: false}, OutcomeStopped},
		{"stopped and paused", tickSnapshot{live: false, enabled: false, paused: true}, OutcomeStopped},
		{"out of scope", tickSnapshot{live: true, enabled: false, paused: false}, OutcomeOutOfScope},
		{"scope before pause", tickSnapshot{live: true, enabled: false, paused: true}, OutcomeOutOfScope},
		{"paused", tickSnapshot{live: true, enabled: true, paused: true}, OutcomePaused},
		{"run", tickSnapshot{live: true, enabled: true, paused: false}, OutcomeRan},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, decide(tc.snap))
		})
	}
}

func TestView(t *testing.T) {
	v := NewView("overview")
	require.Equal(t, "overview", v.Current())
	isLogs := v.When("logs")
	require.False(t, isLogs())

	prev := v.Set("logs")
	require.Equal(t, "overview", prev)
	require.True(t, v.Is("logs"))
	require.True(t, isLogs())
}

func TestPauseState(t *testing.T) {
	var p PauseState
	require.False(t, p.Paused())
	p.Pause()
	require.True(t, p.Paused())
	p.SetDirty(true)
	require.True(t, p.Dirty())
	p.Resume()
	require.False(t, p.Paused())
	require.True(t, p.Dirty(), "resume does not clear dirty")
}
