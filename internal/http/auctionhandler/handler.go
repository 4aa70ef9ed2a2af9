package auctionhandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auctioncore/internal/clients/productclient"
	"auctioncore/internal/services/auction"
	"auctioncore/internal/store/auctionstore"
)

type Handler struct {
	svc auction.IAuctionService
}

func New(svc auction.IAuctionService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/auctions", h.list)
	r.GET("/auctions/:id", h.info)
	r.POST("/auctions", h.register)
}

// @Summary		Register an auction
// @Description	Creates an UPCOMING auction for a PENDING product; the product becomes ACTIVE.
// @Tags			Auctions
// @Param			body	body		RegisterAuctionBody	true	"Auction payload"
// @Success		201		{object}	auctionstore.Auction
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/auctions [post]
func (h *Handler) register(ginCtx *gin.Context) {
	var body RegisterAuctionBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.svc.RegisterAuction(ginCtx.Request.Context(), auction.RegisterAuction{
		ProductID:    body.ProductID,
		SellerID:     body.SellerID,
		StartDate:    body.StartDate,
		EndDate:      body.EndDate,
		StartPrice:   body.StartPrice,
		MinBidAmount: body.MinBidAmount,
	})
	if err != nil {
		ginCtx.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	ginCtx.JSON(http.StatusCreated, a)
}

// @Summary		Get auction details
// @Description	Returns full information about a single auction.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"	default(auc123)
// @Success		200	{object}	auctionstore.Auction
// @Failure		404	{object}	ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	a, err := h.svc.GetAuction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary		List auctions
// @Description	Retrieves auctions, optionally filtered by status.
// @Tags			Auctions
// @Param			status	query		string	false	"Status filter"	Enums(UPCOMING,LIVE,ENDED)
// @Param			limit	query		int		false	"Page size (max 100)"
// @Param			offset	query		int		false	"Page offset"
// @Success		200		{array}		auctionstore.Auction
// @Failure		400		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListAuctions(c.Request.Context(), q.Status, q.Limit, q.Offset)
	if err != nil {
		c.JSON(statusOf(err), &ErrorResponse{Error: err.Error()})
		return
	}
	if out == nil {
		out = []auctionstore.Auction{}
	}
	c.JSON(http.StatusOK, out)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound),
		errors.Is(err, auction.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, auction.ErrInvalidSchedule),
		errors.Is(err, auction.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, auction.ErrProductNotPending):
		return http.StatusConflict
	case errors.Is(err, productclient.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
