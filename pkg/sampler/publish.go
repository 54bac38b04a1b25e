//go:build linux

package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ja7ad/proctop/pkg/system/proc"
)

// Update is one result of the sampling loop: a snapshot, or the error that
// prevented it.
type Update struct {
	Snapshot Snapshot
	Err      error
}

// Latest is a single-slot handoff between the sampling loop and a consumer.
// A new value replaces one the consumer has not taken yet, so the producer
// never waits on a slow display.
type Latest struct {
	ch chan Update
}

// NewLatest returns an empty slot.
func NewLatest() *Latest {
	return &Latest{ch: make(chan Update, 1)}
}

// Publish stores u, dropping any unconsumed value. It never blocks.
// There must be a single publisher.
func (l *Latest) Publish(u Update) {
	for {
		select {
		case l.ch <- u:
			return
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
}

// C returns the channel the consumer receives from.
func (l *Latest) C() <-chan Update { return l.ch }

// Run samples immediately and then once per interval, publishing every
// result to out, until ctx is cancelled (returning nil).
//
// A failed cycle is published and retried on the next tick. Malformed CPU
// counters are not retried: the error is published and returned.
func (r *Reader) Run(ctx context.Context, interval time.Duration, out *Latest) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrBadInterval, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		snap, err := r.ReadSnapshot()
		switch {
		case err == nil:
			out.Publish(Update{Snapshot: snap})
		case errors.Is(err, proc.ErrMalformedCPU):
			r.cfg.Logger.Error("cpu counters unusable, stopping", "err", err)
			out.Publish(Update{Err: err})
			return err
		default:
			r.cfg.Logger.Warn("sample error", "err", err)
			out.Publish(Update{Err: err})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
