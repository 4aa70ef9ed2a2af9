// Package mirror keeps a durable Postgres copy of the Redis auction state.
// The copy is for history and reporting; the Redis store stays the source of
// truth for the lifecycle and the bid protocol.
package mirror

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"auctioncore/internal/store/auctionstore"
)

type lister interface {
	ListByStatus(ctx context.Context, st auctionstore.Status) ([]auctionstore.Auction, error)
}

// Run upserts every auction into Postgres on a fixed period.
func Run(ctx context.Context, store lister, db *sql.DB, interval time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				syncOnce(ctx, store, db)
			}
		}
	}()
}

func syncOnce(ctx context.Context, store lister, db *sql.DB) {
	const upsert = `
	INSERT INTO auctions (id, product_id, seller_id, start_date, end_date,
	                      start_price, current_highest_bid, highest_bidder,
	                      min_bid_amount, status)
	     VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE
	       SET current_highest_bid = EXCLUDED.current_highest_bid,
	           highest_bidder      = EXCLUDED.highest_bidder,
	           status              = EXCLUDED.status`

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		zap.L().Error("mirror.tx_begin", zap.Error(err))
		return
	}
	defer tx.Rollback()

	for _, st := range []auctionstore.Status{
		auctionstore.StatusUpcoming, auctionstore.StatusLive, auctionstore.StatusEnded,
	} {
		list, err := store.ListByStatus(ctx, st)
		if err != nil {
			zap.L().Error("mirror.list", zap.String("status", string(st)), zap.Error(err))
			return
		}
		for _, a := range list {
			if _, err := tx.ExecContext(ctx, upsert,
				a.ID, a.ProductID, a.SellerID, a.StartDate, a.EndDate,
				a.StartPrice, a.CurrentHighestBid, a.HighestBidder,
				a.MinBidAmount, string(a.Status)); err != nil {
				zap.L().Error("mirror.upsert", zap.String("id", a.ID), zap.Error(err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		zap.L().Debug("mirror.commit", zap.Error(err))
	}
}
