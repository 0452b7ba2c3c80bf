package service

import (
	"context"
)

// Service is the lifecycle shared by every long-lived unit in this module:
// the set, the synchronous client and the gc pacer all start, run until
// stopped, and never restart.
type Service interface {
	Start(ctx context.Context) error
	IsRunning() bool
	Serve()
	Stop()
}

// StartStopCallback receives the lifecycle transitions of a SimpleService.
// OnStart runs before the service is considered running; the context it
// receives is cancelled when the service stops.
type StartStopCallback interface {
	OnStart(ctx context.Context) error
	OnStop()
}
