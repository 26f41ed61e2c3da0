// Package conflict decides whether a candidate interval may be booked under a booking key
// and commits the booking so that no two confirmed reservations under one key overlap.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/infras/metrics"
	"facility/infras/otel"
	"facility/internal/domains/reservation/model"
	"facility/internal/domains/reservation/repository"
	"facility/shared/constant"
	"facility/shared/failure"
)

// WriteFunc performs the guarded write against the version observed in snapshot.
// It must return repository.ErrStaleVersion when the version has moved on.
type WriteFunc func(ctx context.Context, snapshot model.Snapshot) error

// Proposal is the outcome of checking a candidate interval against a snapshot.
type Proposal struct {
	Snapshot model.Snapshot
	// Conflict is the first confirmed reservation overlapping the candidate, nil when accepted.
	Conflict *model.Reservation
}

func (p Proposal) Accepted() bool {
	return p.Conflict == nil
}

type Detector interface {
	Propose(ctx context.Context, key model.BookingKey, candidate model.Interval, excludeID string) (Proposal, error)
	Guard(ctx context.Context, key model.BookingKey, candidate model.Interval, excludeID string, write WriteFunc) error
}

type detectorImpl struct {
	repo    repository.Reservation
	otel    otel.Otel
	retries int
	backoff time.Duration
}

func New(repo repository.Reservation, cfg *config.Config, otel otel.Otel) Detector {
	retries := cfg.Booking.MaxWriteRetries
	if retries < 0 {
		retries = 0
	}

	return &detectorImpl{
		repo:    repo,
		otel:    otel,
		retries: retries,
		backoff: time.Duration(cfg.Booking.RetryBackoffMillis) * time.Millisecond,
	}
}

// FindConflict returns the first confirmed reservation in existing that overlaps candidate,
// skipping excludeID so a reservation never conflicts with itself.
func FindConflict(existing []model.Reservation, candidate model.Interval, excludeID string) *model.Reservation {
	for i := range existing {
		r := existing[i]
		if !r.IsConfirmed() || (excludeID != constant.Empty && r.ID == excludeID) {
			continue
		}

		if r.Interval().Overlaps(candidate) {
			return &r
		}
	}

	return nil
}

func (d *detectorImpl) Propose(ctx context.Context, key model.BookingKey, candidate model.Interval, excludeID string) (res Proposal, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".conflict.Propose")
	defer scope.End()
	defer scope.TraceIfError(err)

	snapshot, err := d.repo.Snapshot(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key.String()).Msg("failed to read booking key snapshot")

		return res, fmt.Errorf("failed to read booking key snapshot: %w", err)
	}

	return Proposal{
		Snapshot: snapshot,
		Conflict: FindConflict(snapshot.Reservations, candidate, excludeID),
	}, nil
}

// Guard re-reads, re-checks and re-writes until the write lands on an unchanged version.
// Once retries are exhausted the caller gets a Conflict to retry on its own.
func (d *detectorImpl) Guard(ctx context.Context, key model.BookingKey, candidate model.Interval, excludeID string, write WriteFunc) (err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".conflict.Guard")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("booking.key", key.String())
	scope.SetAttribute("booking.interval", candidate.String())

	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			metrics.IncBookingWriteRetry()

			if err = d.wait(ctx, attempt); err != nil {
				return err
			}
		}

		proposal, err := d.Propose(ctx, key, candidate, excludeID)
		if err != nil {
			return err
		}

		if !proposal.Accepted() {
			metrics.IncBookingConflict(metrics.ConflictOverlap)

			return failure.Conflict(fmt.Sprintf( // nolint:wrapcheck
				"time slot %s on %s overlaps an existing reservation (%s)",
				candidate, key.Day(), proposal.Conflict.Interval(),
			))
		}

		err = write(ctx, proposal.Snapshot)
		if err == nil {
			return nil
		}

		if !errors.Is(err, repository.ErrStaleVersion) {
			return err
		}

		log.Warn().
			Str("key", key.String()).
			Int64("version", proposal.Snapshot.Version).
			Int("attempt", attempt+1).
			Msg("booking key changed during write, retrying")
	}

	metrics.IncBookingConflict(metrics.ConflictRace)

	return failure.Conflict(fmt.Sprintf( // nolint:wrapcheck
		"time slot %s on %s is being booked concurrently, please try again",
		candidate, key.Day(),
	))
}

func (d *detectorImpl) wait(ctx context.Context, attempt int) error {
	if d.backoff <= 0 {
		return ctx.Err() //nolint:wrapcheck
	}

	timer := time.NewTimer(d.backoff * time.Duration(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}
