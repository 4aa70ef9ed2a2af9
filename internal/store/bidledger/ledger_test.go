package bidledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	placedAt := time.Unix(1753628705, 0).UTC()
	mock.ExpectExec("INSERT INTO bids").
		WithArgs("bid-1", "auc-1", "user-7", 150.0, placedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l := New(db)
	err = l.Append(context.Background(), &Bid{
		ID: "bid-1", AuctionID: "auc-1", BidderID: "user-7",
		Amount: 150, PlacedAt: placedAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendReplayIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	placedAt := time.Unix(1753628705, 0).UTC()
	// ON CONFLICT (id) DO NOTHING: zero rows affected, still no error
	mock.ExpectExec("INSERT INTO bids").
		WithArgs("bid-1", "auc-1", "user-7", 150.0, placedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := New(db)
	err = l.Append(context.Background(), &Bid{
		ID: "bid-1", AuctionID: "auc-1", BidderID: "user-7",
		Amount: 150, PlacedAt: placedAt,
	})
	assert.NoError(t, err)
}

func TestListByAuction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t0 := time.Unix(1753628705, 0).UTC()
	rows := sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "placed_at"}).
		AddRow("bid-1", "auc-1", "user-7", 100.0, t0).
		AddRow("bid-2", "auc-1", "user-8", 120.0, t0.Add(time.Second))
	mock.ExpectQuery("SELECT id, auction_id, bidder_id, amount, placed_at").
		WithArgs("auc-1").
		WillReturnRows(rows)

	l := New(db)
	list, err := l.ListByAuction(context.Background(), "auc-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bid-1", list[0].ID)
	assert.Equal(t, 120.0, list[1].Amount)
}

func TestFindByAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t0 := time.Unix(1753628705, 0).UTC()
	rows := sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "placed_at"}).
		AddRow("bid-2", "auc-1", "user-8", 150.0, t0)
	mock.ExpectQuery("SELECT id, auction_id, bidder_id, amount, placed_at").
		WithArgs("auc-1", 150.0).
		WillReturnRows(rows)

	l := New(db)
	b, err := l.FindByAmount(context.Background(), "auc-1", 150)
	require.NoError(t, err)
	assert.Equal(t, "user-8", b.BidderID)
}

func TestFindByAmountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, auction_id, bidder_id, amount, placed_at").
		WithArgs("auc-1", 999.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount", "placed_at"}))

	l := New(db)
	_, err = l.FindByAmount(context.Background(), "auc-1", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
