package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"facility/config"
	"facility/infras/otel"
	"facility/infras/postgres"
	"facility/internal/domains/reservation/model"
	"facility/shared"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	"facility/shared/logger"
	gRepo "facility/shared/repository"
	"facility/shared/timezone"
)

var (
	// ErrStaleVersion is returned by a guarded write when the booking key moved past the expected version.
	ErrStaleVersion = errors.New("booking key version has advanced")
	// ErrNotConfirmed is returned when a guarded write targets a reservation that is no longer confirmed.
	ErrNotConfirmed = errors.New("reservation is not confirmed")
)

type Reservation interface {
	FindByID(ctx context.Context, id string) (model.Reservation, error)
	FindByBookingKey(ctx context.Context, key model.BookingKey, status string) ([]model.Reservation, error)
	FindByOwner(ctx context.Context, ownerID string, params gDto.QueryParams) ([]model.Reservation, error)
	FindAll(ctx context.Context, params gDto.QueryParams) ([]model.Reservation, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountAll(ctx context.Context) (int, error)

	Snapshot(ctx context.Context, key model.BookingKey) (model.Snapshot, error)
	InsertGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) error
	RescheduleGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) error
	Cancel(ctx context.Context, id, modifiedBy string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db        *postgres.Connection
	otel      otel.Otel
	table     string
	keysTable string
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Reservation {
	table := cfg.DB.Postgres.Tables.Reservations

	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, table, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
		table:      table,
		keysTable:  cfg.DB.Postgres.Tables.BookingKeys,
	}
}

func (r *repositoryImpl) scopeName(method string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, model.EntityName, method)
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("FindByID"))
	defer scope.End()

	return r.GetPrimary(ctx, shared.FilterByID(id, model.FieldID, r.table)) //nolint:wrapcheck
}

func keyFilter(table string, key model.BookingKey) []any {
	return []any{
		gDto.Filter{Field: model.FieldRoomID, Value: key.RoomID, Operator: gDto.FilterOperatorEq, Table: table},
		gDto.Filter{Field: model.FieldBookingDate, Value: key.Day(), Operator: gDto.FilterOperatorEq, Table: table},
	}
}

// FindByBookingKey lists a room's reservations on one date ordered by start time. An empty status means any.
func (r *repositoryImpl) FindByBookingKey(ctx context.Context, key model.BookingKey, status string) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("FindByBookingKey"))
	defer scope.End()

	filters := keyFilter(r.table, key)
	if status != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: r.table})
	}

	return r.GetAll(ctx, byStartTime(), gDto.FilterGroup{ //nolint:wrapcheck
		Filters:  filters,
		Operator: gDto.FilterGroupOperatorAnd,
	})
}

func byStartTime() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}
}

// byCreation keeps caller paging but always lists oldest first.
func byCreation(params gDto.QueryParams) gDto.QueryParams {
	params.SortBy = model.FieldCreatedAt
	params.SortDir = gDto.SortDirAsc

	return params
}

func ownerFilter(table, ownerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldOwnerID, Value: ownerID, Operator: gDto.FilterOperatorEq, Table: table},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

func (r *repositoryImpl) FindByOwner(ctx context.Context, ownerID string, params gDto.QueryParams) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("FindByOwner"))
	defer scope.End()

	return r.GetAll(ctx, byCreation(params), ownerFilter(r.table, ownerID)) //nolint:wrapcheck
}

func (r *repositoryImpl) FindAll(ctx context.Context, params gDto.QueryParams) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("FindAll"))
	defer scope.End()

	return r.GetAll(ctx, byCreation(params), gDto.FilterGroup{}) //nolint:wrapcheck
}

func (r *repositoryImpl) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("CountByOwner"))
	defer scope.End()

	return r.Count(ctx, ownerFilter(r.table, ownerID)) //nolint:wrapcheck
}

func (r *repositoryImpl) CountAll(ctx context.Context) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("CountAll"))
	defer scope.End()

	return r.Count(ctx, gDto.FilterGroup{}) //nolint:wrapcheck
}

// Snapshot reads the version token before the reservations, both from the primary. A write
// that lands between the two reads advances the token, so a guarded write against the
// returned version fails rather than committing over an unseen reservation.
func (r *repositoryImpl) Snapshot(ctx context.Context, key model.BookingKey) (snapshot model.Snapshot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("Snapshot"))
	defer scope.End()
	defer scope.TraceIfError(err)

	snapshot.Key = key

	query := fmt.Sprintf("SELECT version FROM %s WHERE room_id = $1 AND booking_date = $2", r.keysTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = r.db.Write.GetContext(ctx, &snapshot.Version, query, key.RoomID, key.Day())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)

		return snapshot, fmt.Errorf("failed to read booking key version (%s): %w", key, err)
	}

	snapshot.Reservations, err = r.GetAllPrimary(ctx, byStartTime(), gDto.FilterGroup{
		Filters: append(keyFilter(r.table, key),
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusConfirmed, Operator: gDto.FilterOperatorEq, Table: r.table},
		),
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		return snapshot, fmt.Errorf("failed to read booking key reservations (%s): %w", key, err)
	}

	return snapshot, nil
}

// advanceVersion bumps the booking key token if and only if it still equals expected.
// A missing row counts as version 0.
func (r *repositoryImpl) advanceVersion(ctx context.Context, tx *sqlx.Tx, key model.BookingKey, expected int64) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("advanceVersion"))
	defer scope.End()

	query := fmt.Sprintf(`INSERT INTO %[1]s (room_id, booking_date, version) VALUES (:room_id, :booking_date, 1)
ON CONFLICT (room_id, booking_date) DO UPDATE SET version = %[1]s.version + 1
WHERE %[1]s.version = :expected_version`, r.keysTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.NamedExecContext(ctx, query, map[string]any{
		"room_id":          key.RoomID,
		"booking_date":     key.Day(),
		"expected_version": expected,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to advance booking key version (%s): %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows (%s): %w", key, err)
	}

	if affected == 0 {
		return ErrStaleVersion
	}

	return nil
}

// inTx runs fn in a transaction on the primary and commits only if fn succeeds.
func (r *repositoryImpl) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *repositoryImpl) InsertGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("InsertGuarded"))
	defer scope.End()
	defer scope.TraceIfError(err)

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.advanceVersion(ctx, tx, reservation.Key(), expectedVersion); err != nil {
			return err
		}

		return r.InsertTx(ctx, tx, reservation) //nolint:wrapcheck
	})
}

func (r *repositoryImpl) RescheduleGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("RescheduleGuarded"))
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`UPDATE %s SET start_time = :start_time, end_time = :end_time, modified_at = :modified_at, modified_by = :modified_by
WHERE id = :id AND status = :confirmed`, r.table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.advanceVersion(ctx, tx, reservation.Key(), expectedVersion); err != nil {
			return err
		}

		result, err := tx.NamedExecContext(ctx, query, map[string]any{
			"id":          reservation.ID,
			"start_time":  reservation.StartTime,
			"end_time":    reservation.EndTime,
			"modified_at": reservation.ModifiedAt,
			"modified_by": reservation.ModifiedBy,
			"confirmed":   model.StatusConfirmed,
		})
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to reschedule reservation %s: %w", reservation.ID, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if affected == 0 {
			return ErrNotConfirmed
		}

		return nil
	})
}

// Cancel flips a confirmed reservation to cancelled. It reports false when nothing changed.
// Cancelling only removes an interval, so the booking key version is left alone.
func (r *repositoryImpl) Cancel(ctx context.Context, id, modifiedBy string) (changed bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, r.scopeName("Cancel"))
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`UPDATE %s SET status = :cancelled, modified_at = :modified_at, modified_by = :modified_by
WHERE id = :id AND status = :confirmed`, r.table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.NamedExecContext(ctx, query, map[string]any{
		"id":          id,
		"cancelled":   model.StatusCancelled,
		"confirmed":   model.StatusConfirmed,
		"modified_at": timezone.Now(),
		"modified_by": modifiedBy,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to cancel reservation %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
