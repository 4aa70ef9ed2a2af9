package auctionhandler

import "time"

type RegisterAuctionBody struct {
	ProductID    string    `json:"product_id"     binding:"required"       example:"prod123"`
	SellerID     string    `json:"seller_id"      binding:"required"       example:"seller123"`
	StartDate    time.Time `json:"start_date"     binding:"required"       example:"2025-07-27T16:05:05Z"`
	EndDate      time.Time `json:"end_date"       binding:"required"       example:"2025-07-27T17:05:05Z"`
	StartPrice   float64   `json:"start_price"    binding:"gte=0"          example:"50"`
	MinBidAmount float64   `json:"min_bid_amount" binding:"gte=0"          example:"10"`
} // @name RegisterAuctionRequest

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

type ListAuctionsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=UPCOMING LIVE ENDED"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
} // @name ListAuctionsQuery
