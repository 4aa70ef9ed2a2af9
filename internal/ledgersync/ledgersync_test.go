package ledgersync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctioncore/internal/store/bidledger"
)

func redoMessage() redis.XMessage {
	return redis.XMessage{
		ID: "1700000000-0",
		Values: map[string]any{
			"id":         "bid-7",
			"auction_id": "auction-9",
			"bidder_id":  "bob",
			"amount":     "220",
			"placed_at":  "1700000123",
		},
	}
}

func TestReplayDrainsBatch(t *testing.T) {
	rdc, rmock := redismock.NewClientMock()
	db, smock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rmock.ExpectXRangeN(stream, "-", "+", 100).SetVal([]redis.XMessage{redoMessage()})
	smock.ExpectExec("INSERT INTO bids").WillReturnResult(sqlmock.NewResult(0, 1))
	rmock.ExpectXDel(stream, "1700000000-0").SetVal(1)

	d := replayOnce(context.Background(), rdc, bidledger.New(db))
	assert.Equal(t, time.Duration(0), d)
	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestReplayBacksOffWhileLedgerDown(t *testing.T) {
	rdc, rmock := redismock.NewClientMock()
	db, smock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rmock.ExpectXRangeN(stream, "-", "+", 100).SetVal([]redis.XMessage{redoMessage()})
	smock.ExpectExec("INSERT INTO bids").WillReturnError(errors.New("connection refused"))

	// the entry stays queued and the worker pauses instead of re-reading
	// the stream immediately
	d := replayOnce(context.Background(), rdc, bidledger.New(db))
	assert.Greater(t, d, time.Duration(0))
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestReplayBacksOffOnEmptyStream(t *testing.T) {
	rdc, rmock := redismock.NewClientMock()

	rmock.ExpectXRangeN(stream, "-", "+", 100).SetVal(nil)

	d := replayOnce(context.Background(), rdc, nil)
	assert.Greater(t, d, time.Duration(0))
}

func TestEnqueueParksBidOnRedoStream(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	q := NewQueue(rdc)

	b := &bidledger.Bid{
		ID:        "2f1c9e9a-5f2b-4c55-9a3e-0d6f1a2b3c4d",
		AuctionID: "auction-1",
		BidderID:  "alice",
		Amount:    150.5,
		PlacedAt:  time.Unix(1700000000, 0).UTC(),
	}

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"id":         b.ID,
			"auction_id": b.AuctionID,
			"bidder_id":  b.BidderID,
			"amount":     "150.5",
			"placed_at":  "1700000000",
		},
	}).SetVal("1700000000-0")

	require.NoError(t, q.Enqueue(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeRoundTripsEnqueuedFields(t *testing.T) {
	b := decode(redis.XMessage{
		ID: "1700000000-0",
		Values: map[string]any{
			"id":         "bid-7",
			"auction_id": "auction-9",
			"bidder_id":  "bob",
			"amount":     "220",
			"placed_at":  "1700000123",
		},
	})

	assert.Equal(t, "bid-7", b.ID)
	assert.Equal(t, "auction-9", b.AuctionID)
	assert.Equal(t, "bob", b.BidderID)
	assert.Equal(t, 220.0, b.Amount)
	assert.Equal(t, time.Unix(1700000123, 0).UTC(), b.PlacedAt)
}

func TestDecodeToleratesMissingFields(t *testing.T) {
	b := decode(redis.XMessage{ID: "1-0", Values: map[string]any{"id": "bid-x"}})

	assert.Equal(t, "bid-x", b.ID)
	assert.Zero(t, b.Amount)
	assert.Equal(t, time.Unix(0, 0).UTC(), b.PlacedAt)
}

func TestSleepReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleep(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
