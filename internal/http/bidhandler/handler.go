package bidhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auctioncore/internal/auth"
	"auctioncore/internal/services/bid"
	"auctioncore/internal/store/bidledger"
)

type Handler struct {
	svc bid.IBidService
}

func New(svc bid.IBidService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auctions/:id/bids", h.place)
	r.GET("/auctions/:id/bids", h.list)
	r.GET("/auctions/:id/bids/highest", h.highest)
	r.GET("/auctions/:id/bids/winner", h.winner)
}

// @Summary		Place a bid
// @Description	Bids must beat the current high bid by at least the auction's minimum increment.
// @Tags			Bids
// @Param			id		path		string			true	"Auction ID"	default(auc123)
// @Param			body	body		PlaceBidBody	true	"Bid payload"
// @Success		201		{object}	bidledger.Bid
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/auctions/{id}/bids [post]
func (h *Handler) place(ginCtx *gin.Context) {
	var body PlaceBidBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	// the authenticated identity wins over the body field, so a caller
	// cannot bid under someone else's name
	bidder := auth.CallerID(ginCtx)
	if bidder == "" {
		bidder = body.BidderID
	}
	if bidder == "" {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: "bidder identity required"})
		return
	}

	b, err := h.svc.PlaceBid(ginCtx.Request.Context(),
		ginCtx.Param("id"), bidder, body.Amount)
	if err != nil {
		ginCtx.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusCreated, b)
}

// @Summary		List bids for an auction
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{array}		bidledger.Bid
// @Failure		500	{object}	ErrorResponse
// @Router			/auctions/{id}/bids [get]
func (h *Handler) list(c *gin.Context) {
	bids, err := h.svc.GetBidsByAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	if bids == nil {
		bids = []bidledger.Bid{}
	}
	c.JSON(http.StatusOK, bids)
}

// @Summary		Get the current highest bid
// @Description	Serves the cached high bid maintained by the bid protocol.
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{object}	HighestBidResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id}/bids/highest [get]
func (h *Handler) highest(c *gin.Context) {
	hb, err := h.svc.GetHighestBid(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, &HighestBidResponse{AuctionID: c.Param("id"), HighBid: hb})
}

// @Summary		Get the highest bidder
// @Description	Fails while the auction is still UPCOMING.
// @Tags			Bids
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{object}	bidledger.Bid
// @Failure		404	{object}	ErrorResponse
// @Failure		409	{object}	ErrorResponse
// @Router			/auctions/{id}/bids/winner [get]
func (h *Handler) winner(c *gin.Context) {
	b, err := h.svc.GetHighestBidder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, bid.ErrAuctionNotFound),
		errors.Is(err, bid.ErrBidNotFound):
		return http.StatusNotFound
	case errors.Is(err, bid.ErrInvalidBidAmount):
		return http.StatusBadRequest
	case errors.Is(err, bid.ErrAuctionNotLive),
		errors.Is(err, bid.ErrAuctionNotStarted),
		errors.Is(err, bid.ErrConcurrentBidConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
