package service

import (
	"context"
	"time"

	"bouncebook/pkg/logger"
)

// Reaper periodically clears expired holds from storage. It exists for
// hygiene only; lazy expiry in the availability filter already keeps
// expired holds from occupying anything.
type Reaper struct {
	service  HoldService
	interval time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewReaper(service HoldService, interval time.Duration, log *logger.Logger) *Reaper {
	return &Reaper{
		service:  service,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (r *Reaper) Start() {
	go r.run()
	r.log.Info("Hold reaper started", "interval", r.interval)
}

func (r *Reaper) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reap()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Reaper) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	holds, blocks, err := r.service.ReapExpired(ctx)
	if err != nil {
		r.log.Error("Hold reaper sweep failed", "error", err)
		return
	}
	if holds > 0 || blocks > 0 {
		r.log.Info("Hold reaper sweep completed", "holds_deleted", holds, "blocks_deleted", blocks)
	}
}

func (r *Reaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
}
