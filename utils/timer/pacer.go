package timer

import (
	"context"
	"time"

	"github.com/tuannh982/actor-treeset/utils/service"
)

// Pacer is a resettable single-shot alarm: every Reset schedules exactly one
// fire on C after the given duration, replacing any fire still pending. The
// demo driver uses it to pace gc passes; consumers re-arm it after each fire.
type Pacer interface {
	service.Service
	C() <-chan time.Time
	Reset(d time.Duration)
}

type pacer struct {
	*service.SimpleService
	clock  *time.Timer
	resets chan time.Duration
	fires  chan time.Time
}

func NewPacer() Pacer {
	p := &pacer{
		clock: time.NewTimer(0),
		// one slot so a Reset racing shutdown parks instead of blocking
		resets: make(chan time.Duration, 1),
		fires:  make(chan time.Time),
	}
	p.SimpleService = service.NewSimpleService(p)
	p.stopClock()
	return p
}

func (p *pacer) stopClock() {
	if !p.clock.Stop() {
		select {
		case <-p.clock.C:
		default:
		}
	}
}

func (p *pacer) OnStart(ctx context.Context) error {
	go func() {
		for {
			select {
			case d := <-p.resets:
				p.stopClock()
				p.clock.Reset(d)
			case ts := <-p.clock.C:
				// deliver asynchronously so a slow consumer cannot
				// wedge the clock loop
				go func() {
					select {
					case p.fires <- ts:
					case <-ctx.Done():
					}
				}()
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// OnStop leaves the clock to the loop goroutine, which owns it once started;
// an armed timer firing after shutdown has no reader and is collected.
func (p *pacer) OnStop() {}

func (p *pacer) C() <-chan time.Time {
	return p.fires
}

func (p *pacer) Reset(d time.Duration) {
	p.resets <- d
}
