package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockUnit struct {
	*SimpleService
	startErr error
	started  int
	stopped  int
	runCtx   context.Context
}

func newMockUnit(startErr error) *mockUnit {
	u := &mockUnit{startErr: startErr}
	u.SimpleService = NewSimpleService(u)
	return u
}

func (u *mockUnit) OnStart(ctx context.Context) error {
	if u.startErr != nil {
		return u.startErr
	}
	u.started++
	u.runCtx = ctx
	return nil
}

func (u *mockUnit) OnStop() {
	u.stopped++
}

func TestSimpleServiceLifecycle(t *testing.T) {
	u := newMockUnit(nil)
	require.False(t, u.IsRunning())
	require.Nil(t, u.Start(context.Background()))
	require.True(t, u.IsRunning())
	require.Equal(t, 1, u.started)

	// starting twice is a no-op
	require.Nil(t, u.Start(context.Background()))
	require.Equal(t, 1, u.started)

	u.Stop()
	require.False(t, u.IsRunning())
	require.Equal(t, 1, u.stopped)
	select {
	case <-u.runCtx.Done():
	default:
		t.Fatal("run context not cancelled on stop")
	}

	// stopping twice is a no-op, restarting is an error
	u.Stop()
	require.Equal(t, 1, u.stopped)
	require.Equal(t, ErrServiceAlreadyStopped, u.Start(context.Background()))
}

func TestSimpleServiceStartError(t *testing.T) {
	boom := errors.New("boom")
	u := newMockUnit(boom)
	require.Equal(t, boom, u.Start(context.Background()))
	require.False(t, u.IsRunning())
}

func TestSimpleServiceParentCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	u := newMockUnit(nil)
	require.Nil(t, u.Start(ctx))
	cancel()
	u.Serve()
	require.Eventually(t, func() bool { return !u.IsRunning() }, time.Second, time.Millisecond)
}
