package util

import (
	"sync"
	"time"

	"github.com/claimwise/automation/logger"
	"go.uber.org/zap"
)

// TickWorker runs fn on a fixed interval and additionally whenever Wake is
// called, so callers that enqueue work do not wait for the next tick.
type TickWorker struct {
	stop         chan struct{}
	wake         chan struct{}
	tickInterval time.Duration
	wg           *sync.WaitGroup
	name         string
	fn           func()
}

func NewTickWorker(name string, interval time.Duration, fn func(), wg *sync.WaitGroup) *TickWorker {
	return &TickWorker{
		stop:         make(chan struct{}),
		wake:         make(chan struct{}, 1),
		tickInterval: interval,
		wg:           wg,
		fn:           fn,
		name:         name,
	}
}

func (tw *TickWorker) Start() {
	ticker := time.NewTicker(tw.tickInterval)
	tw.wg.Add(1)
	go func() {
		defer tw.wg.Done()
		for {
			select {
			case <-ticker.C:
				tw.fn()
			case <-tw.wake:
				tw.fn()
			case <-tw.stop:
				logger.Info("stopping tick worker", zap.String("worker", tw.name))
				ticker.Stop()
				return
			}
		}
	}()
	logger.Info("tick worker started", zap.String("worker", tw.name))
}

// Wake schedules an immediate run; a wake already pending is enough.
func (tw *TickWorker) Wake() {
	select {
	case tw.wake <- struct{}{}:
	default:
	}
}

func (tw *TickWorker) Stop() {
	tw.stop <- struct{}{}
}
