// Package userclient resolves a caller's role from the identity directory.
// Authentication itself happens upstream at the gateway; the core only needs
// the role claim for the capability check.
package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type UserDTO struct {
	Name  string `json:"user_name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnavailable  = errors.New("user service unavailable")
)

type IUserClient interface {
	GetUser(ctx context.Context, userName string) (*UserDTO, error)
}

type client struct {
	baseURL string
	hc      *http.Client
}

var _ IUserClient = (*client)(nil)

func New(baseURL string, timeout time.Duration) IUserClient {
	return &client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *client) GetUser(ctx context.Context, userName string) (*UserDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/user/%s", c.baseURL, userName), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}

	dto := &UserDTO{}
	if err := json.NewDecoder(res.Body).Decode(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return dto, nil
}
