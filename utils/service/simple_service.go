package service

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrServiceAlreadyStopped = errors.New("service already stopped")
)

// SimpleService implements Service around a StartStopCallback. Start derives
// the run context handed to OnStart; Stop runs OnStop and cancels it. A
// stopped service stays stopped: units here own goroutines and channels that
// are not rebuildable after teardown.
type SimpleService struct {
	mu          sync.Mutex
	cancel      context.CancelFunc
	closeChan   <-chan struct{}
	stopped     bool
	startStopCb StartStopCallback
}

func NewSimpleService(startStopCb StartStopCallback) *SimpleService {
	return &SimpleService{
		startStopCb: startStopCb,
	}
}

func (s *SimpleService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrServiceAlreadyStopped
	}
	if s.closeChan != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	if err := s.startStopCb.OnStart(runCtx); err != nil {
		cancel()
		return err
	}
	s.cancel = cancel
	s.closeChan = runCtx.Done()
	// runCtx dies with the parent too, so this also turns an external
	// cancellation into a regular Stop
	go func() {
		<-runCtx.Done()
		s.Stop()
	}()
	return nil
}

func (s *SimpleService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeChan == nil {
		return false
	}
	select {
	case <-s.closeChan:
		return false
	default:
		return true
	}
}

// Serve blocks until the service stops. A service that was never started
// returns immediately.
func (s *SimpleService) Serve() {
	s.mu.Lock()
	ch := s.closeChan
	s.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (s *SimpleService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.closeChan == nil {
		return
	}
	s.startStopCb.OnStop()
	s.cancel()
}
