// Package auction handles auction registration and reads. Lifecycle status is
// never caller-controlled: registration forces UPCOMING and all later
// transitions belong to the scheduler.
package auction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"auctioncore/internal/clients/productclient"
	"auctioncore/internal/clock"
	"auctioncore/internal/store/auctionstore"
)

var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotPending = errors.New("product is already up for auction")
	ErrInvalidSchedule   = errors.New("invalid auction schedule")
	ErrInvalidStatus     = errors.New("unknown auction status")
)

// Store is the slice of the state store this service needs.
type Store interface {
	Register(ctx context.Context, a *auctionstore.Auction) error
	Get(ctx context.Context, id string) (*auctionstore.Auction, error)
	ListByStatus(ctx context.Context, st auctionstore.Status) ([]auctionstore.Auction, error)
}

// RegisterAuction is the creation request. Status is deliberately absent.
type RegisterAuction struct {
	ProductID    string
	SellerID     string
	StartDate    time.Time
	EndDate      time.Time
	StartPrice   float64
	MinBidAmount float64
}

type IAuctionService interface {
	RegisterAuction(ctx context.Context, req RegisterAuction) (*auctionstore.Auction, error)
	GetAuction(ctx context.Context, id string) (*auctionstore.Auction, error)
	ListAuctions(ctx context.Context, status string, limit, offset int) ([]auctionstore.Auction, error)
}

type auctionService struct {
	store    Store
	products productclient.IProductClient
	clk      clock.Clock
}

var _ IAuctionService = (*auctionService)(nil)

func NewAuctionService(store Store, products productclient.IProductClient, clk clock.Clock) IAuctionService {
	return &auctionService{store: store, products: products, clk: clk}
}

// RegisterAuction creates an UPCOMING auction for a PENDING product and flips
// the product ACTIVE.
func (svc *auctionService) RegisterAuction(ctx context.Context, req RegisterAuction) (*auctionstore.Auction, error) {
	now := svc.clk.Now()
	if !req.StartDate.Before(req.EndDate) || !req.EndDate.After(now) {
		return nil, ErrInvalidSchedule
	}
	if req.StartPrice < 0 || req.MinBidAmount < 0 {
		return nil, ErrInvalidSchedule
	}

	product, err := svc.products.GetProduct(ctx, req.ProductID)
	if errors.Is(err, productclient.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check product %s: %w", req.ProductID, err)
	}
	if product.Status != productclient.StatusPending {
		return nil, ErrProductNotPending
	}

	a := &auctionstore.Auction{
		ID:           uuid.NewString(),
		ProductID:    req.ProductID,
		SellerID:     req.SellerID,
		StartDate:    req.StartDate.UTC(),
		EndDate:      req.EndDate.UTC(),
		StartPrice:   req.StartPrice,
		MinBidAmount: req.MinBidAmount,
		// CurrentHighestBid stays 0 until the first accepted bid
	}
	if err := svc.store.Register(ctx, a); err != nil {
		return nil, fmt.Errorf("register auction: %w", err)
	}

	if err := svc.products.SetStatus(ctx, req.ProductID, productclient.StatusActive); err != nil {
		// auction exists either way; the catalog will show PENDING until a
		// retried registration or manual fix
		zap.L().Error("auction.activate_product",
			zap.String("auction", a.ID), zap.String("product", req.ProductID), zap.Error(err))
	}

	zap.L().Info("auction registered",
		zap.String("auction", a.ID),
		zap.String("product", req.ProductID),
		zap.Time("start_date", a.StartDate),
		zap.Time("end_date", a.EndDate))
	return a, nil
}

func (svc *auctionService) GetAuction(ctx context.Context, id string) (*auctionstore.Auction, error) {
	a, err := svc.store.Get(ctx, id)
	if errors.Is(err, auctionstore.ErrNotFound) {
		return nil, ErrAuctionNotFound
	}
	return a, err
}

// ListAuctions returns auctions with the given status, or every auction when
// the filter is empty. limit == 0 means no limit. Results are ordered by
// start date (id as tie-break) so limit/offset pages stay stable; the store's
// set reads come back unordered.
func (svc *auctionService) ListAuctions(ctx context.Context, status string, limit, offset int) ([]auctionstore.Auction, error) {
	var all []auctionstore.Auction

	statuses := []auctionstore.Status{
		auctionstore.StatusUpcoming, auctionstore.StatusLive, auctionstore.StatusEnded,
	}
	if status != "" {
		st := auctionstore.Status(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		statuses = []auctionstore.Status{st}
	}
	for _, st := range statuses {
		list, err := svc.store.ListByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].StartDate.Equal(all[j].StartDate) {
			return all[i].StartDate.Before(all[j].StartDate)
		}
		return all[i].ID < all[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
