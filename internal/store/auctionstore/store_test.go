package auctionstore

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHash() map[string]string {
	return map[string]string{
		"product_id":          "prod-9",
		"seller_id":           "seller-1",
		"start_date":          "1753628705",
		"end_date":            "1753632305",
		"start_price":         "50",
		"current_highest_bid": "120.5",
		"highest_bidder":      "user-7",
		"min_bid_amount":      "10",
		"status":              "LIVE",
	}
}

func TestGet(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	st := New(rdc)

	mock.ExpectHGetAll("auction:auc-1").SetVal(sampleHash())

	a, err := st.Get(context.Background(), "auc-1")
	require.NoError(t, err)
	assert.Equal(t, "auc-1", a.ID)
	assert.Equal(t, "prod-9", a.ProductID)
	assert.Equal(t, StatusLive, a.Status)
	assert.Equal(t, 120.5, a.CurrentHighestBid)
	assert.Equal(t, "user-7", a.HighestBidder)
	assert.Equal(t, time.Unix(1753628705, 0).UTC(), a.StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	st := New(rdc)

	mock.ExpectHGetAll("auction:missing").SetVal(map[string]string{})

	_, err := st.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByStatus(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	st := New(rdc)

	mock.ExpectSMembers("auctions:live").SetVal([]string{"auction:a1", "auction:a2"})
	mock.ExpectHGetAll("auction:a1").SetVal(sampleHash())
	// a2 expired between SMEMBERS and HGETALL: skipped, not an error
	mock.ExpectHGetAll("auction:a2").SetVal(map[string]string{})

	list, err := st.ListByStatus(context.Background(), StatusLive)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStatusEmpty(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	st := New(rdc)

	mock.ExpectSMembers("auctions:upcoming").SetVal([]string{})

	list, err := st.ListByStatus(context.Background(), StatusUpcoming)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHashCodecRoundTrip(t *testing.T) {
	in := &Auction{
		ID:                "auc-42",
		ProductID:         "prod-42",
		SellerID:          "seller-3",
		StartDate:         time.Unix(1753628705, 0).UTC(),
		EndDate:           time.Unix(1753632305, 0).UTC(),
		StartPrice:        99.99,
		CurrentHighestBid: 150,
		HighestBidder:     "user-2",
		MinBidAmount:      5,
		Status:            StatusUpcoming,
	}

	// redis returns every hash field as a string; emulate that
	enc := encodeHash(in)
	asStrings := make(map[string]string, len(enc))
	for k, v := range enc {
		switch tv := v.(type) {
		case string:
			asStrings[k] = tv
		case int64:
			asStrings[k] = strconv.FormatInt(tv, 10)
		}
	}

	out := decodeHash("auc-42", asStrings)
	assert.Equal(t, in, out)
}

func TestStatusNext(t *testing.T) {
	next, ok := StatusUpcoming.Next()
	require.True(t, ok)
	assert.Equal(t, StatusLive, next)

	next, ok = StatusLive.Next()
	require.True(t, ok)
	assert.Equal(t, StatusEnded, next)

	_, ok = StatusEnded.Next()
	assert.False(t, ok)
}

func TestTransitionRejectsSkips(t *testing.T) {
	rdc, _ := redismock.NewClientMock()
	st := New(rdc)

	err := st.Transition(context.Background(), "a1", StatusUpcoming, StatusEnded)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	err = st.Transition(context.Background(), "a1", StatusEnded, StatusLive)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
