package auctionstore

import (
	"strconv"
	"time"
)

// Redis hash field names. The Lua functions in redis_functions read the same
// fields; keep the two in sync.
const (
	fieldProductID  = "product_id"
	fieldSellerID   = "seller_id"
	fieldStartDate  = "start_date"
	fieldEndDate    = "end_date"
	fieldStartPrice = "start_price"
	fieldHighBid    = "current_highest_bid"
	fieldHighBidder = "highest_bidder"
	fieldMinBid     = "min_bid_amount"
	fieldStatus     = "status"
)

func encodeHash(a *Auction) map[string]any {
	return map[string]any{
		fieldProductID:  a.ProductID,
		fieldSellerID:   a.SellerID,
		fieldStartDate:  a.StartDate.Unix(),
		fieldEndDate:    a.EndDate.Unix(),
		fieldStartPrice: ftoa(a.StartPrice),
		fieldHighBid:    ftoa(a.CurrentHighestBid),
		fieldHighBidder: a.HighestBidder,
		fieldMinBid:     ftoa(a.MinBidAmount),
		fieldStatus:     string(a.Status),
	}
}

func decodeHash(id string, data map[string]string) *Auction {
	return &Auction{
		ID:                id,
		ProductID:         data[fieldProductID],
		SellerID:          data[fieldSellerID],
		StartDate:         ts(data[fieldStartDate]),
		EndDate:           ts(data[fieldEndDate]),
		StartPrice:        atof(data[fieldStartPrice]),
		CurrentHighestBid: atof(data[fieldHighBid]),
		HighestBidder:     data[fieldHighBidder],
		MinBidAmount:      atof(data[fieldMinBid]),
		Status:            Status(data[fieldStatus]),
	}
}

// helpers
func ts(s string) time.Time {
	i, _ := strconv.ParseInt(s, 10, 64)
	return time.Unix(i, 0).UTC()
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
