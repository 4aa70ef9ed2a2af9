package ws

import "encoding/json"

const (
	EventSnapshot = "auctions/snapshot"
	EventBid      = "auctions/bid"
	EventStatus   = "auctions/status"
)

// Envelope wraps every WS frame. The bid and status events are published by
// the store's Lua functions over Redis; the snapshot is pushed on join.
type Envelope struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

type BidEvent struct {
	AuctionID string  `json:"id"`
	Amount    float64 `json:"amount"`
	Bidder    string  `json:"bidder"`
}

type StatusEvent struct {
	AuctionID string `json:"id"`
	Status    string `json:"status"`
}
