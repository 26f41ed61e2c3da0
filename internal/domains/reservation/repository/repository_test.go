package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility/config"
	"facility/infras/otel/mocks"
	"facility/infras/postgres"
	"facility/internal/domains/reservation/model"
	"facility/internal/domains/reservation/repository"
	"facility/internal/testfixtures"
)

const (
	advanceVersionSQL = `INSERT INTO booking_keys (room_id, booking_date, version) VALUES ($1, $2, 1)
ON CONFLICT (room_id, booking_date) DO UPDATE SET version = booking_keys.version + 1
WHERE booking_keys.version = $3`
	insertSQL = `INSERT INTO reservations (id, room_id, booking_date, start_time, end_time, owner_id, status, created_at, modified_at, created_by, modified_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	rescheduleSQL = `UPDATE reservations SET start_time = $1, end_time = $2, modified_at = $3, modified_by = $4
WHERE id = $5 AND status = $6`
	cancelSQL = `UPDATE reservations SET status = $1, modified_at = $2, modified_by = $3
WHERE id = $4 AND status = $5`
)

func newRepository(t *testing.T) (repository.Reservation, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	conn := sqlx.NewDb(db, "postgres")

	cfg := &config.Config{}
	cfg.DB.Postgres.Tables.Reservations = "reservations"
	cfg.DB.Postgres.Tables.BookingKeys = "booking_keys"

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, cfg, mocks.NewOtel()), mock
}

func TestRepository_InsertGuarded(t *testing.T) {
	rsv := testfixtures.Reservation("rsv-1", "room-1", "2024-01-01", "09:00", "10:00", "alice")

	t.Run("advances the version and inserts in one transaction", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).
			WithArgs("room-1", "2024-01-01", int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertSQL).
			WithArgs("rsv-1", "room-1", sqlmock.AnyArg(), "09:00:00", "10:00:00", "alice", model.StatusConfirmed,
				sqlmock.AnyArg(), sqlmock.AnyArg(), "alice", "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.InsertGuarded(context.Background(), rsv, 4))
	})

	t.Run("stale version rolls back without inserting", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).
			WithArgs("room-1", "2024-01-01", int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.InsertGuarded(context.Background(), rsv, 4)
		assert.ErrorIs(t, err, repository.ErrStaleVersion)
	})

	t.Run("store error rolls back", func(t *testing.T) {
		repo, mock := newRepository(t)

		boom := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).WillReturnError(boom)
		mock.ExpectRollback()

		err := repo.InsertGuarded(context.Background(), rsv, 0)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, repository.ErrStaleVersion)
	})

	t.Run("failed insert rolls back the version bump", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertSQL).WillReturnError(errors.New("duplicate key"))
		mock.ExpectRollback()

		assert.Error(t, repo.InsertGuarded(context.Background(), rsv, 0))
	})
}

func TestRepository_RescheduleGuarded(t *testing.T) {
	rsv := testfixtures.Reservation("rsv-1", "room-1", "2024-01-01", "11:00", "12:00", "alice")
	rsv.ModifiedBy = "root"

	t.Run("moves a confirmed reservation", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).
			WithArgs("room-1", "2024-01-01", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(rescheduleSQL).
			WithArgs("11:00:00", "12:00:00", sqlmock.AnyArg(), "root", "rsv-1", model.StatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.RescheduleGuarded(context.Background(), rsv, 2))
	})

	t.Run("stale version", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.RescheduleGuarded(context.Background(), rsv, 2), repository.ErrStaleVersion)
	})

	t.Run("reservation no longer confirmed", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(advanceVersionSQL).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(rescheduleSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.RescheduleGuarded(context.Background(), rsv, 2), repository.ErrNotConfirmed)
	})
}

func TestRepository_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "confirmed reservation", affected: 1, want: true},
		{name: "already cancelled", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectExec(cancelSQL).
				WithArgs(model.StatusCancelled, sqlmock.AnyArg(), "alice", "rsv-1", model.StatusConfirmed).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			changed, err := repo.Cancel(context.Background(), "rsv-1", "alice")
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
		})
	}
}
