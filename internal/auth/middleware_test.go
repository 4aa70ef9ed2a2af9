package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"auctioncore/internal/clients/userclient"
)

type fakeUsers struct {
	users map[string]string // id -> role
	err   error
}

func (f *fakeUsers) GetUser(ctx context.Context, userName string) (*userclient.UserDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.users[userName]
	if !ok {
		return nil, userclient.ErrUserNotFound
	}
	return &userclient.UserDTO{Name: userName, Role: role}, nil
}

func gatedRouter(users userclient.IUserClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(users))
	r.GET("/auctions", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMiddlewareResolvesRoleFromDirectory(t *testing.T) {
	r := gatedRouter(&fakeUsers{users: map[string]string{"user-1": "BIDDER"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auctions", nil)
	req.Header.Set(HeaderUser, "user-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareMissingClaims(t *testing.T) {
	r := gatedRouter(&fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auctions", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareUnknownUser(t *testing.T) {
	r := gatedRouter(&fakeUsers{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auctions", nil)
	req.Header.Set(HeaderUser, "ghost")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A role lookup failing because the directory is down is a dependency
// failure, not an authentication verdict.
func TestMiddlewareDirectoryDownIsBadGateway(t *testing.T) {
	r := gatedRouter(&fakeUsers{err: userclient.ErrUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auctions", nil)
	req.Header.Set(HeaderUser, "user-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMiddlewareForbiddenMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(&fakeUsers{}))
	r.POST("/auctions", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auctions", nil)
	req.Header.Set(HeaderRole, "BIDDER")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
