package auctionstore

import "time"

type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusLive     Status = "LIVE"
	StatusEnded    Status = "ENDED"
)

// Next returns the only legal successor status. Transitions never skip a
// state and never reverse.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusUpcoming:
		return StatusLive, true
	case StatusLive:
		return StatusEnded, true
	}
	return "", false
}

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusEnded:
		return true
	}
	return false
}

// Auction is the state-store record. CurrentHighestBid is a cached pointer to
// the logically highest accepted bid; the bid ledger holds the full history.
type Auction struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	SellerID          string    `json:"seller_id"`
	StartDate         time.Time `json:"start_date"   example:"2025-07-27T16:05:05Z"`
	EndDate           time.Time `json:"end_date"     example:"2025-07-27T17:05:05Z"`
	StartPrice        float64   `json:"start_price"`
	CurrentHighestBid float64   `json:"current_highest_bid"`
	HighestBidder     string    `json:"highest_bidder"`
	MinBidAmount      float64   `json:"min_bid_amount"`
	Status            Status    `json:"status"       example:"LIVE"`
}
