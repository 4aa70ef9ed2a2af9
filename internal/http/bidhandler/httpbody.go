package bidhandler

type PlaceBidBody struct {
	// BidderID is a fallback for unauthenticated setups; the X-User-Id
	// identity takes precedence when present.
	BidderID string  `json:"bidder_id" binding:"omitempty"         example:"user123"`
	Amount   float64 `json:"amount"    binding:"required,gt=0"     example:"60"`
} // @name PlaceBidRequest

type HighestBidResponse struct {
	AuctionID string  `json:"auction_id"`
	HighBid   float64 `json:"high_bid"`
} // @name HighestBidResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
