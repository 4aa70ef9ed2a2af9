// Package productclient talks to the product catalog collaborator. The core
// only reads a product's status and flips it through its lifecycle
// (PENDING → ACTIVE → SOLD|UNSOLD); everything else about products is out of
// scope.
package productclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusSold    Status = "SOLD"
	StatusUnsold  Status = "UNSOLD"
)

type ProductDTO struct {
	ID          string  `json:"product_id"`
	Name        string  `json:"product_name"`
	Description string  `json:"product_description"`
	Price       float64 `json:"price"`
	SellerName  string  `json:"seller_name"`
	Status      Status  `json:"status"`
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("product service unavailable")
)

type IProductClient interface {
	GetProduct(ctx context.Context, id string) (*ProductDTO, error)
	SetStatus(ctx context.Context, id string, status Status) error
}

type client struct {
	baseURL string
	hc      *http.Client
}

var _ IProductClient = (*client)(nil)

func New(baseURL string, timeout time.Duration) IProductClient {
	return &client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *client) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/product/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		zap.L().Warn("productclient.get", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}

	dto := &ProductDTO{}
	if err := json.NewDecoder(res.Body).Decode(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return dto, nil
}

// SetStatus is the settlement side effect. A timeout is reported as
// ErrUnavailable, never swallowed as success.
func (c *client) SetStatus(ctx context.Context, id string, status Status) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/product/%s/%s", c.baseURL, id, status), nil)
	if err != nil {
		return err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		zap.L().Warn("productclient.set_status",
			zap.String("id", id), zap.String("status", string(status)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrProductNotFound
	case res.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}
	return nil
}
