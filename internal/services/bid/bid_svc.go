// Package bid implements the bid-acceptance protocol. A bid is admitted by a
// read-validate-conditionally-write loop against the auction state store: the
// high-bid write only succeeds while the stored value still equals the one
// the validation saw, so a stale read can never overwrite a higher concurrent
// bid. Contention is scoped per auction id.
package bid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"auctioncore/internal/clock"
	"auctioncore/internal/store/auctionstore"
	"auctioncore/internal/store/bidledger"
)

var (
	ErrAuctionNotFound       = errors.New("auction not found")
	ErrAuctionNotLive        = errors.New("auction is not live")
	ErrAuctionNotStarted     = errors.New("auction has not yet started")
	ErrInvalidBidAmount      = errors.New("bid amount below current high bid plus increment")
	ErrConcurrentBidConflict = errors.New("lost bid race, retry")
	ErrBidNotFound           = errors.New("bid not found")
)

// AuctionStore is the slice of the state store the protocol needs.
type AuctionStore interface {
	Get(ctx context.Context, id string) (*auctionstore.Auction, error)
	ApplyBid(ctx context.Context, id string, expected, amount float64, bidder string) error
}

// Ledger is the append-only bid history.
type Ledger interface {
	Append(ctx context.Context, b *bidledger.Bid) error
	ListByAuction(ctx context.Context, auctionID string) ([]bidledger.Bid, error)
	FindByAmount(ctx context.Context, auctionID string, amount float64) (*bidledger.Bid, error)
}

// RedoQueue takes accepted bids whose synchronous ledger append failed.
type RedoQueue interface {
	Enqueue(ctx context.Context, b *bidledger.Bid) error
}

type IBidService interface {
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (*bidledger.Bid, error)
	GetBidsByAuction(ctx context.Context, auctionID string) ([]bidledger.Bid, error)
	GetHighestBid(ctx context.Context, auctionID string) (float64, error)
	GetHighestBidder(ctx context.Context, auctionID string) (*bidledger.Bid, error)
}

type bidService struct {
	store        AuctionStore
	ledger       Ledger
	redo         RedoQueue
	clk          clock.Clock
	minIncrement float64 // fallback when the auction has no increment of its own
	maxRetries   int
}

var _ IBidService = (*bidService)(nil)

func NewBidService(store AuctionStore, ledger Ledger, redo RedoQueue,
	clk clock.Clock, minIncrement float64, maxRetries int) IBidService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &bidService{
		store:        store,
		ledger:       ledger,
		redo:         redo,
		clk:          clk,
		minIncrement: minIncrement,
		maxRetries:   maxRetries,
	}
}

// PlaceBid validates and commits one bid. Bids are only accepted on LIVE
// auctions; amounts must beat the current high bid by at least the minimum
// increment. A lost conditional write is retried against the fresh state up
// to maxRetries times before the caller sees a conflict.
func (svc *bidService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (*bidledger.Bid, error) {
	for attempt := 0; attempt < svc.maxRetries; attempt++ {
		a, err := svc.store.Get(ctx, auctionID)
		if errors.Is(err, auctionstore.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("read auction %s: %w", auctionID, err)
		}
		if a.Status != auctionstore.StatusLive {
			return nil, ErrAuctionNotLive
		}

		if amount < a.CurrentHighestBid+svc.increment(a) {
			return nil, ErrInvalidBidAmount
		}

		err = svc.store.ApplyBid(ctx, auctionID, a.CurrentHighestBid, amount, bidderID)
		switch {
		case errors.Is(err, auctionstore.ErrCASConflict):
			zap.L().Debug("bid.cas_retry",
				zap.String("auction", auctionID),
				zap.String("bidder", bidderID),
				zap.Int("attempt", attempt+1))
			continue // re-read and re-validate against the new high bid
		case errors.Is(err, auctionstore.ErrNotLive):
			return nil, ErrAuctionNotLive
		case errors.Is(err, auctionstore.ErrNotFound):
			return nil, ErrAuctionNotFound
		case err != nil:
			return nil, fmt.Errorf("apply bid on %s: %w", auctionID, err)
		}

		b := &bidledger.Bid{
			ID:        uuid.NewString(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			PlacedAt:  svc.clk.Now(),
		}
		svc.append(ctx, b)
		return b, nil
	}
	return nil, ErrConcurrentBidConflict
}

// append records the accepted bid. The auction price already reflects it, so
// a failed append is parked on the redo queue rather than failing the bid;
// the bid id keys the eventual replay.
func (svc *bidService) append(ctx context.Context, b *bidledger.Bid) {
	err := svc.ledger.Append(ctx, b)
	if err == nil {
		return
	}
	zap.L().Warn("bid.ledger_append", zap.String("bid", b.ID), zap.Error(err))
	if err := svc.redo.Enqueue(ctx, b); err != nil {
		zap.L().Error("bid.redo_enqueue", zap.String("bid", b.ID), zap.Error(err))
	}
}

func (svc *bidService) increment(a *auctionstore.Auction) float64 {
	if a.MinBidAmount > 0 {
		return a.MinBidAmount
	}
	return svc.minIncrement
}

func (svc *bidService) GetBidsByAuction(ctx context.Context, auctionID string) ([]bidledger.Bid, error) {
	return svc.ledger.ListByAuction(ctx, auctionID)
}

// GetHighestBid serves the cached value maintained by the conditional write;
// it is not recomputed from the ledger.
func (svc *bidService) GetHighestBid(ctx context.Context, auctionID string) (float64, error) {
	a, err := svc.store.Get(ctx, auctionID)
	if errors.Is(err, auctionstore.ErrNotFound) {
		return 0, ErrAuctionNotFound
	}
	if err != nil {
		return 0, err
	}
	return a.CurrentHighestBid, nil
}

// GetHighestBidder resolves the ledger entry behind the cached high bid.
// Ties on amount go to the earliest acceptance.
func (svc *bidService) GetHighestBidder(ctx context.Context, auctionID string) (*bidledger.Bid, error) {
	a, err := svc.store.Get(ctx, auctionID)
	if errors.Is(err, auctionstore.ErrNotFound) {
		return nil, ErrAuctionNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.Status == auctionstore.StatusUpcoming {
		return nil, ErrAuctionNotStarted
	}
	if a.CurrentHighestBid == 0 {
		return nil, ErrBidNotFound
	}

	b, err := svc.ledger.FindByAmount(ctx, auctionID, a.CurrentHighestBid)
	if errors.Is(err, bidledger.ErrNotFound) {
		return nil, ErrBidNotFound
	}
	return b, err
}
