// Package settlement finalizes ended auctions: it decides SOLD vs UNSOLD and
// pushes the outcome to the product catalog. Pending settlements live in a
// Redis-stream outbox written atomically with the ENDED transition, so a
// failed product call is retried on later scheduler ticks instead of being
// lost.
package settlement

import (
	"context"
	"time"

	"auctioncore/internal/clients/productclient"
)

// Decide is the whole settlement decision: any accepted bid sells the
// product, otherwise it goes back unsold. Exactly one outcome.
func Decide(highBid float64) productclient.Status {
	if highBid > 0 {
		return productclient.StatusSold
	}
	return productclient.StatusUnsold
}

type IReconciler interface {
	Settle(ctx context.Context, productID string, highBid float64) error
}

type Reconciler struct {
	products productclient.IProductClient
	timeout  time.Duration
}

var _ IReconciler = (*Reconciler)(nil)

func NewReconciler(products productclient.IProductClient, timeout time.Duration) *Reconciler {
	return &Reconciler{products: products, timeout: timeout}
}

// Settle applies the outcome for one auction. The call carries a bounded
// timeout; a timed-out call reports failure so the outbox keeps the entry.
func (r *Reconciler) Settle(ctx context.Context, productID string, highBid float64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.products.SetStatus(ctx, productID, Decide(highBid))
}
