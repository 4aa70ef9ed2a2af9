// Package bidledger is the append-only bid store. Bids are immutable once
// recorded; the unique bid id doubles as an idempotency key so failed appends
// can be replayed safely.
package bidledger

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("bid not found")

type Bid struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	PlacedAt  time.Time `json:"placed_at" example:"2025-07-27T16:05:05Z"`
}

type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger { return &Ledger{db: db} }

// Append records an accepted bid. Re-appending the same bid id is a no-op,
// which makes replaying a failed append safe.
func (l *Ledger) Append(ctx context.Context, b *Bid) error {
	const ins = `INSERT INTO bids (id, auction_id, bidder_id, amount, placed_at)
	             VALUES ($1, $2, $3, $4, $5)
	             ON CONFLICT (id) DO NOTHING`
	_, err := l.db.ExecContext(ctx, ins,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.PlacedAt)
	return err
}

func (l *Ledger) ListByAuction(ctx context.Context, auctionID string) ([]Bid, error) {
	const q = `SELECT id, auction_id, bidder_id, amount, placed_at
	             FROM bids WHERE auction_id = $1
	            ORDER BY placed_at ASC`
	rows, err := l.db.QueryContext(ctx, q, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Bid
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.PlacedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// FindByAmount resolves the ledger entry backing a cached high bid. If more
// than one bid shares the amount the earliest acceptance wins.
func (l *Ledger) FindByAmount(ctx context.Context, auctionID string, amount float64) (*Bid, error) {
	const q = `SELECT id, auction_id, bidder_id, amount, placed_at
	             FROM bids WHERE auction_id = $1 AND amount = $2
	            ORDER BY placed_at ASC LIMIT 1`
	b := &Bid{}
	err := l.db.QueryRowContext(ctx, q, auctionID, amount).
		Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.PlacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
