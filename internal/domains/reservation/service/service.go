package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/infras/kafka"
	"facility/infras/metrics"
	"facility/infras/otel"
	"facility/internal/domains/policy"
	"facility/internal/domains/reservation/conflict"
	"facility/internal/domains/reservation/model"
	"facility/internal/domains/reservation/model/dto"
	"facility/internal/domains/reservation/repository"
	roomModel "facility/internal/domains/room/model"
	roomRepo "facility/internal/domains/room/repository"
	"facility/shared"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	"facility/shared/failure"
	"facility/shared/identity"
	"facility/shared/timezone"
)

// Reservation is the reservation lifecycle. Every operation authorizes the caller found in ctx.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.CreateReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleReservationRequest, id string) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) (dto.ReservationResponse, error)
	List(ctx context.Context, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	ListByUser(ctx context.Context, ownerID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	ListAll(ctx context.Context, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	Availability(ctx context.Context, roomID, date string) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo     repository.Reservation
	rooms    roomRepo.Room
	detector conflict.Detector
	policy   policy.Policy
	kafka    kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Reservation,
	rooms roomRepo.Room,
	detector conflict.Detector,
	policy policy.Policy,
	kafka kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:     repo,
		rooms:    rooms,
		detector: detector,
		policy:   policy,
		kafka:    kafka,
		cfg:      cfg,
		otel:     otel,
	}
}

func caller(ctx context.Context) identity.Identity {
	id, _ := identity.FromContext(ctx)

	return id
}

func (s *serviceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return shared.WithStoreTimeout(ctx, s.cfg.Booking.StoreTimeoutSeconds)
}

func (s *serviceImpl) ensureRoom(ctx context.Context, roomID string) error {
	exist, err := s.rooms.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, constant.Empty))
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to check room")

		return shared.StoreError(err, "check room")
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get reservation")

		return reservation, shared.StoreError(err, "get reservation")
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

// publish sends the event after the change is committed. Delivery failures are only logged.
func (s *serviceImpl) publish(ctx context.Context, eventType string, reservation model.Reservation, actor string) {
	event := model.NewEvent(eventType, reservation, actor, timezone.Now())

	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{Key: reservation.ID, Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Reservation, message); err != nil {
			log.Error().Err(err).Str("event", eventType).Str("id", reservation.ID).Msg("failed to publish reservation event")
		}
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	who := caller(ctx)
	if err = s.policy.Authorize(policy.ActionCreateReservation, who, constant.Empty); err != nil {
		return res, err
	}

	reservation, err := req.ToModel(who.Subject)
	if err != nil {
		return res, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err = s.ensureRoom(ctx, reservation.RoomID); err != nil {
		return res, err
	}

	err = s.detector.Guard(ctx, reservation.Key(), reservation.Interval(), constant.Empty,
		func(ctx context.Context, snapshot model.Snapshot) error {
			return s.repo.InsertGuarded(ctx, reservation, snapshot.Version)
		})
	if err != nil {
		log.Error().Err(err).Str("key", reservation.Key().String()).Msg("failed to create reservation")

		return res, shared.StoreError(err, "create reservation")
	}

	metrics.IncReservationCreated()
	s.publish(ctx, model.EventCreated, reservation, who.Subject)

	res.ID = reservation.ID

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	who := caller(ctx)
	if who.IsAnonymous() {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(policy.ActionViewReservation, who, reservation.OwnerID); err != nil {
		return res, err
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, req dto.RescheduleReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	who := caller(ctx)
	if who.IsAnonymous() {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(policy.ActionRescheduleReservation, who, current.OwnerID); err != nil {
		return res, err
	}

	if !current.IsConfirmed() {
		return res, failure.InvalidState("only confirmed reservations can be rescheduled") // nolint:wrapcheck
	}

	updated := current
	updated.StartTime = interval.Start
	updated.EndTime = interval.End
	updated.ModifiedAt = timezone.Now()
	updated.ModifiedBy = who.Subject

	err = s.detector.Guard(ctx, current.Key(), interval, current.ID,
		func(ctx context.Context, snapshot model.Snapshot) error {
			return s.repo.RescheduleGuarded(ctx, updated, snapshot.Version)
		})
	if errors.Is(err, repository.ErrNotConfirmed) {
		return res, failure.InvalidState("reservation was cancelled while rescheduling") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to reschedule reservation")

		return res, shared.StoreError(err, "reschedule reservation")
	}

	metrics.IncReservationRescheduled()
	s.publish(ctx, model.EventRescheduled, updated, who.Subject)

	res.FromModel(updated)

	return res, nil
}

// Cancel is idempotent: a reservation that is already cancelled is returned unchanged.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	who := caller(ctx)
	if who.IsAnonymous() {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(policy.ActionCancelReservation, who, current.OwnerID); err != nil {
		return res, err
	}

	if !current.IsConfirmed() {
		res.FromModel(current)

		return res, nil
	}

	changed, err := s.repo.Cancel(ctx, id, who.Subject)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to cancel reservation")

		return res, shared.StoreError(err, "cancel reservation")
	}

	current.Status = model.StatusCancelled

	if changed {
		current.ModifiedAt = timezone.Now()
		current.ModifiedBy = who.Subject

		metrics.IncReservationCancelled()
		s.publish(ctx, model.EventCancelled, current, who.Subject)
	}

	res.FromModel(current)

	return res, nil
}

// List shapes the query by the caller: admins list everything, everyone else only their own.
func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	who := caller(ctx)
	if err = s.policy.Authorize(policy.ActionListReservations, who, constant.Empty); err != nil {
		return res, err
	}

	listScope := s.policy.ListScope(who)
	if listScope.All {
		return s.ListAll(ctx, params)
	}

	return s.ListByUser(ctx, listScope.OwnerID, params)
}

// ListByUser lists ownerID's reservations. Only the owner or an admin may ask.
func (s *serviceImpl) ListByUser(ctx context.Context, ownerID string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ListByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.policy.Authorize(policy.ActionListUserReservations, caller(ctx), ownerID); err != nil {
		return res, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Str("owner", ownerID).Msg("failed to count reservations")

		return res, shared.StoreError(err, "count reservations")
	}

	models, err := s.repo.FindByOwner(ctx, ownerID, params)
	if err != nil {
		log.Error().Err(err).Str("owner", ownerID).Msg("failed to list reservations")

		return res, shared.StoreError(err, "list reservations")
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// ListAll scans every reservation and is admin only.
func (s *serviceImpl) ListAll(ctx context.Context, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.ListAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.policy.Authorize(policy.ActionListAllReservations, caller(ctx), constant.Empty); err != nil {
		return res, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, shared.StoreError(err, "count reservations")
	}

	models, err := s.repo.FindAll(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations")

		return res, shared.StoreError(err, "list reservations")
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, roomID, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.policy.Authorize(policy.ActionViewAvailability, caller(ctx), constant.Empty); err != nil {
		return res, err
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err = s.ensureRoom(ctx, roomID); err != nil {
		return res, err
	}

	key := model.NewBookingKey(roomID, day)

	models, err := s.repo.FindByBookingKey(ctx, key, model.StatusConfirmed)
	if err != nil {
		log.Error().Err(err).Str("key", key.String()).Msg("failed to list booked slots")

		return res, shared.StoreError(err, "list booked slots")
	}

	res.FromModels(key, models)

	return res, nil
}
