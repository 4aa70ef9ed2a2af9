package settlement

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"auctioncore/internal/store/auctionstore"
)

// Entry is one pending settlement. The stream entry is appended by the
// auction store's ENDED transition, in the same atomic step as the status
// write.
type Entry struct {
	MsgID     string
	AuctionID string
	ProductID string
	HighBid   float64
}

type IOutbox interface {
	Pending(ctx context.Context) ([]Entry, error)
	Ack(ctx context.Context, msgID string) error
}

type Outbox struct {
	rdc *redis.Client
}

var _ IOutbox = (*Outbox)(nil)

func NewOutbox(rdc *redis.Client) *Outbox { return &Outbox{rdc: rdc} }

// Pending returns every unacknowledged settlement, oldest first.
func (o *Outbox) Pending(ctx context.Context) ([]Entry, error) {
	msgs, err := o.rdc.XRange(ctx, auctionstore.SettlementStream, "-", "+").Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		hb, _ := strconv.ParseFloat(str(m.Values["high_bid"]), 64)
		entries = append(entries, Entry{
			MsgID:     m.ID,
			AuctionID: str(m.Values["auction_id"]),
			ProductID: str(m.Values["product_id"]),
			HighBid:   hb,
		})
	}
	return entries, nil
}

// Ack removes a settled entry. Settlements are only acked after the product
// call succeeded; a crash between the call and the ack replays the same
// idempotent status write on the next tick.
func (o *Outbox) Ack(ctx context.Context, msgID string) error {
	return o.rdc.XDel(ctx, auctionstore.SettlementStream, msgID).Err()
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
