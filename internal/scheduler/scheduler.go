// Package scheduler drives auctions through UPCOMING → LIVE → ENDED on a
// fixed period. Each tick re-reads the state store, so partial failures heal
// on the next tick; ended-but-unsettled auctions are picked up from the
// settlement outbox rather than re-scanned, since ENDED auctions never return
// to the live set.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"auctioncore/internal/clock"
	"auctioncore/internal/settlement"
	"auctioncore/internal/store/auctionstore"
)

// StateStore is the slice of the auction store the scheduler needs.
type StateStore interface {
	ListByStatus(ctx context.Context, st auctionstore.Status) ([]auctionstore.Auction, error)
	Transition(ctx context.Context, id string, from, to auctionstore.Status) error
}

type Scheduler struct {
	store    StateStore
	outbox   settlement.IOutbox
	settler  settlement.IReconciler
	clk      clock.Clock
	interval time.Duration
}

func New(store StateStore, outbox settlement.IOutbox, settler settlement.IReconciler,
	clk clock.Clock, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		outbox:   outbox,
		settler:  settler,
		clk:      clk,
		interval: interval,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	tk := time.NewTicker(s.interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Tick performs one full scan pass. Exported so tests can drive the scans
// directly with a fake clock and store.
func (s *Scheduler) Tick(ctx context.Context) {
	s.startScan(ctx)
	s.endScan(ctx)
	s.drainOutbox(ctx)
}

// startScan promotes due UPCOMING auctions to LIVE. Failures are per-auction:
// one bad transition never blocks the rest of the batch.
func (s *Scheduler) startScan(ctx context.Context) {
	upcoming, err := s.store.ListByStatus(ctx, auctionstore.StatusUpcoming)
	if err != nil {
		zap.L().Error("scheduler.start_scan.list", zap.Error(err))
		return
	}
	now := s.clk.Now()
	for _, a := range upcoming {
		if a.StartDate.After(now) {
			continue
		}
		err := s.store.Transition(ctx, a.ID, auctionstore.StatusUpcoming, auctionstore.StatusLive)
		if errors.Is(err, auctionstore.ErrIllegalTransition) {
			continue // another instance already moved it
		}
		if err != nil {
			zap.L().Error("scheduler.start_scan.transition",
				zap.String("auction", a.ID), zap.Error(err))
			continue
		}
		zap.L().Info("auction live",
			zap.String("auction", a.ID), zap.Time("start_date", a.StartDate))
	}
}

// endScan closes due LIVE auctions. The ENDED write also enqueues the
// settlement-outbox entry atomically, so settlement can never be lost between
// the status write and the product call.
func (s *Scheduler) endScan(ctx context.Context) {
	live, err := s.store.ListByStatus(ctx, auctionstore.StatusLive)
	if err != nil {
		zap.L().Error("scheduler.end_scan.list", zap.Error(err))
		return
	}
	now := s.clk.Now()
	for _, a := range live {
		if a.EndDate.After(now) {
			continue
		}
		err := s.store.Transition(ctx, a.ID, auctionstore.StatusLive, auctionstore.StatusEnded)
		if errors.Is(err, auctionstore.ErrIllegalTransition) {
			continue
		}
		if err != nil {
			zap.L().Error("scheduler.end_scan.transition",
				zap.String("auction", a.ID), zap.Error(err))
			continue
		}
		zap.L().Info("auction ended",
			zap.String("auction", a.ID),
			zap.Float64("high_bid", a.CurrentHighestBid))
	}
}

// drainOutbox settles every pending entry. Entries are acked only after the
// product call succeeded; anything else stays queued for the next tick.
func (s *Scheduler) drainOutbox(ctx context.Context) {
	entries, err := s.outbox.Pending(ctx)
	if err != nil {
		zap.L().Error("scheduler.outbox.pending", zap.Error(err))
		return
	}
	for _, e := range entries {
		if err := s.settler.Settle(ctx, e.ProductID, e.HighBid); err != nil {
			zap.L().Warn("scheduler.settle",
				zap.String("auction", e.AuctionID),
				zap.String("product", e.ProductID),
				zap.Error(err))
			continue
		}
		if err := s.outbox.Ack(ctx, e.MsgID); err != nil {
			zap.L().Warn("scheduler.outbox.ack",
				zap.String("msg", e.MsgID), zap.Error(err))
		}
	}
}
