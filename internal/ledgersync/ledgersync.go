// Package ledgersync repairs the one inconsistency the bid protocol can
// leave behind: an auction price reflecting a bid whose ledger append failed.
// Such bids are parked on a Redis stream and replayed into Postgres until the
// idempotent insert lands.
package ledgersync

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctioncore/internal/store/bidledger"
)

const stream = "ledger_redo"

// Queue parks accepted bids that could not be appended synchronously.
type Queue struct {
	rdc *redis.Client
}

func NewQueue(rdc *redis.Client) *Queue { return &Queue{rdc: rdc} }

func (q *Queue) Enqueue(ctx context.Context, b *bidledger.Bid) error {
	return q.rdc.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"id":         b.ID,
			"auction_id": b.AuctionID,
			"bidder_id":  b.BidderID,
			"amount":     strconv.FormatFloat(b.Amount, 'f', -1, 64),
			"placed_at":  strconv.FormatInt(b.PlacedAt.Unix(), 10),
		},
	}).Err()
}

// Run tails the redo stream and replays every parked bid into the ledger.
// Entries are deleted only after a successful append; the append itself is
// idempotent on bid id, so a crash between append and delete is harmless.
func Run(ctx context.Context, rdc *redis.Client, ledger *bidledger.Ledger) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if d := replayOnce(ctx, rdc, ledger); d > 0 {
				sleep(ctx, d)
			}
		}
	}()
}

// replayOnce drains up to one batch and returns how long to pause before the
// next round. Zero only when the whole batch was replayed; any failure backs
// off so an ongoing outage does not turn into a hot spin.
func replayOnce(ctx context.Context, rdc *redis.Client, ledger *bidledger.Ledger) time.Duration {
	msgs, err := rdc.XRangeN(ctx, stream, "-", "+", 100).Result()
	if err != nil {
		zap.L().Warn("ledgersync.xrange", zap.Error(err))
		return time.Second
	}
	if len(msgs) == 0 {
		return 2 * time.Second
	}

	for _, m := range msgs {
		b := decode(m)
		if err := ledger.Append(ctx, b); err != nil {
			zap.L().Warn("ledgersync.append",
				zap.String("bid", b.ID), zap.Error(err))
			return time.Second // ledger still down, try again next round
		}
		if err := rdc.XDel(ctx, stream, m.ID).Err(); err != nil {
			zap.L().Warn("ledgersync.xdel", zap.String("msg", m.ID), zap.Error(err))
		}
	}
	return 0
}

func decode(m redis.XMessage) *bidledger.Bid {
	amount, _ := strconv.ParseFloat(str(m.Values["amount"]), 64)
	at, _ := strconv.ParseInt(str(m.Values["placed_at"]), 10, 64)
	return &bidledger.Bid{
		ID:        str(m.Values["id"]),
		AuctionID: str(m.Values["auction_id"]),
		BidderID:  str(m.Values["bidder_id"]),
		Amount:    amount,
		PlacedAt:  time.Unix(at, 0).UTC(),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
