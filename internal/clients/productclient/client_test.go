package productclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/prod-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product_id":"prod-1","product_name":"clock","status":"PENDING"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	p, err := c.GetProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, StatusPending, p.Status)
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSetStatus(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.SetStatus(context.Background(), "prod-1", StatusSold)
	require.NoError(t, err)
	assert.Equal(t, "/product/prod-1/SOLD", gotPath)
}

func TestSetStatusUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.SetStatus(context.Background(), "prod-1", StatusUnsold)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSetStatusTimeoutIsNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond)
	err := c.SetStatus(context.Background(), "prod-1", StatusSold)
	assert.ErrorIs(t, err, ErrUnavailable)
}
