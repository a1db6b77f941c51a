package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	g := NewGuard("test", func(context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}, NopObserver{})

	done := make(chan bool)
	go func() { done <- g.Trigger(context.Background()) }()
	<-started

	require.True(t, g.Running())
	require.False(t, g.Trigger(context.Background()), "second trigger must not run while first is in flight")
	require.False(t, g.Trigger(context.Background()))

	close(release)
	require.True(t, <-done)
	require.False(t, g.Running())
	require.Equal(t, int32(1), calls.Load())
}

func TestGuardReportsErrorsAndReleases(t *testing.T) {
	obs := &recordingObserver{}
	g := NewGuard("failing", func(context.Context) error {
		return errors.New("upstream down")
	}, obs)

	require.True(t, g.Trigger(context.Background()))
	require.False(t, g.Running())
	require.Len(t, obs.warnings(), 1)

	require.True(t, g.Trigger(context.Background()), "next trigger retries after failure")
	require.Len(t, obs.warnings(), 2)
}

func TestGuardRecoversPanics(t *testing.T) {
	obs := &recordingObserver{}
	g := NewGuard("panicky", func(context.Context) error {
		panic("boom")
	}, obs)

	require.NotPanics(t, func() {
		require.True(t, g.Trigger(context.Background()))
	})
	require.False(t, g.Running())
	require.Len(t, obs.warnings(), 1)
}

func TestSlogObserverNilLogger(t *testing.T) {
	var o *SlogObserver
	require.NotPanics(t, func() { o.Warn("message") })
	require.NotPanics(t, func() { NewSlogObserver(nil).Debug("message") })
}
