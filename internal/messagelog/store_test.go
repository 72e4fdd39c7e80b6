package messagelog

import (
	"context"
	"io"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olharstudio/booking-assistant/pkg/logging"
)

var testNow = time.Date(2026, time.January, 14, 13, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store := New(mock, logging.NewWithWriter(io.Discard, "error"),
		WithClock(func() time.Time { return testNow }))
	return store, mock
}

func TestRecord(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "5511999999999", "oi", DirectionIn, testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Record(context.Background(), "5511999999999", "oi", DirectionIn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRejectsUnknownDirection(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Record(context.Background(), "551199", "oi", "sideways")
	assert.Error(t, err)
}

func TestRecordExchange(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "551199", "oi", DirectionIn, testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "551199", "Olá!", DirectionOut, testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store.RecordExchange(context.Background(), "551199", "oi", "Olá!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordExchangeSkipsEmptyReply(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "551199", "oi", DirectionIn, testNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store.RecordExchange(context.Background(), "551199", "oi", "")
	assert.NoError(t, mock.ExpectationsWereMet())
}
