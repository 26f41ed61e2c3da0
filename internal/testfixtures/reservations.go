// Package testfixtures provides deterministic fixtures and an in-memory reservation store
// honouring the same conditional-write contract as the Postgres repository.
package testfixtures

import (
	"context"
	"slices"
	"sync"
	"time"

	"facility/internal/domains/reservation/model"
	"facility/internal/domains/reservation/repository"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	gModel "facility/shared/model"
)

var referenceTime = time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)

// ReferenceTime is the creation timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Day parses a YYYY-MM-DD date and panics on malformed input.
func Day(value string) time.Time {
	date, err := model.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return date
}

// Slot parses an HH:MM-HH:MM pair and panics on malformed input.
func Slot(start, end string) model.Interval {
	interval, err := model.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}

	return interval
}

// Reservation builds a confirmed reservation.
func Reservation(id, roomID, date, start, end, ownerID string) model.Reservation {
	slot := Slot(start, end)

	return model.Reservation{
		ID:          id,
		RoomID:      roomID,
		BookingDate: Day(date),
		StartTime:   slot.Start,
		EndTime:     slot.End,
		OwnerID:     ownerID,
		Status:      model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  referenceTime,
			ModifiedAt: referenceTime,
			CreatedBy:  ownerID,
			ModifiedBy: ownerID,
		},
	}
}

var _ repository.Reservation = (*ReservationStore)(nil)

// ReservationStore keeps reservations and booking key versions in memory.
type ReservationStore struct {
	mu           sync.Mutex
	reservations map[string]model.Reservation
	versions     map[string]int64
	order        []string

	// AfterSnapshot runs after a snapshot is taken and before it is returned, outside the lock.
	AfterSnapshot func(key model.BookingKey)
	// Err, when set, fails every call.
	Err error
}

func NewReservationStore(seed ...model.Reservation) *ReservationStore {
	store := &ReservationStore{
		reservations: map[string]model.Reservation{},
		versions:     map[string]int64{},
	}

	for _, r := range seed {
		store.put(r)

		if r.IsConfirmed() {
			store.versions[r.Key().String()]++
		}
	}

	return store
}

func (s *ReservationStore) put(r model.Reservation) {
	if _, exists := s.reservations[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}

	s.reservations[r.ID] = r
}

// Version returns the current version token of key.
func (s *ReservationStore) Version(key model.BookingKey) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.versions[key.String()]
}

// Confirmed returns the confirmed reservations under key ordered by start time.
func (s *ReservationStore) Confirmed(key model.BookingKey) []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.byKey(key, model.StatusConfirmed)
}

func (s *ReservationStore) byKey(key model.BookingKey, status string) []model.Reservation {
	res := []model.Reservation{}

	for _, id := range s.order {
		r := s.reservations[id]
		if r.Key().String() != key.String() || (status != constant.Empty && r.Status != status) {
			continue
		}

		res = append(res, r)
	}

	slices.SortStableFunc(res, func(a, b model.Reservation) int {
		return int(a.StartTime - b.StartTime)
	})

	return res
}

func (s *ReservationStore) FindByID(_ context.Context, id string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return model.Reservation{}, s.Err
	}

	return s.reservations[id], nil
}

func (s *ReservationStore) FindByBookingKey(_ context.Context, key model.BookingKey, status string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return s.byKey(key, status), nil
}

func (s *ReservationStore) filter(ownerID string) []model.Reservation {
	res := []model.Reservation{}

	for _, id := range s.order {
		r := s.reservations[id]
		if ownerID != constant.Empty && r.OwnerID != ownerID {
			continue
		}

		res = append(res, r)
	}

	return res
}

func page(items []model.Reservation, params gDto.QueryParams) []model.Reservation {
	if params.Limit <= 0 {
		return items
	}

	offset := 0
	if params.Page > 0 {
		offset = (params.Page - 1) * params.Limit
	}

	if offset >= len(items) {
		return []model.Reservation{}
	}

	return items[offset:min(offset+params.Limit, len(items))]
}

func (s *ReservationStore) FindByOwner(_ context.Context, ownerID string, params gDto.QueryParams) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return page(s.filter(ownerID), params), nil
}

func (s *ReservationStore) FindAll(_ context.Context, params gDto.QueryParams) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return page(s.filter(constant.Empty), params), nil
}

func (s *ReservationStore) CountByOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}

	return len(s.filter(ownerID)), nil
}

func (s *ReservationStore) CountAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}

	return len(s.reservations), nil
}

func (s *ReservationStore) Snapshot(ctx context.Context, key model.BookingKey) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}

	s.mu.Lock()

	if s.Err != nil {
		s.mu.Unlock()

		return model.Snapshot{}, s.Err
	}

	snapshot := model.Snapshot{
		Key:          key,
		Version:      s.versions[key.String()],
		Reservations: s.byKey(key, model.StatusConfirmed),
	}
	s.mu.Unlock()

	if s.AfterSnapshot != nil {
		s.AfterSnapshot(key)
	}

	return snapshot, nil
}

// advance must be called with the lock held.
func (s *ReservationStore) advance(key model.BookingKey, expected int64) error {
	if s.versions[key.String()] != expected {
		return repository.ErrStaleVersion
	}

	s.versions[key.String()]++

	return nil
}

func (s *ReservationStore) InsertGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if err := s.advance(reservation.Key(), expectedVersion); err != nil {
		return err
	}

	s.put(reservation)

	return nil
}

func (s *ReservationStore) RescheduleGuarded(ctx context.Context, reservation model.Reservation, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if s.versions[reservation.Key().String()] != expectedVersion {
		return repository.ErrStaleVersion
	}

	current, ok := s.reservations[reservation.ID]
	if !ok || !current.IsConfirmed() {
		return repository.ErrNotConfirmed
	}

	s.versions[reservation.Key().String()]++

	current.StartTime = reservation.StartTime
	current.EndTime = reservation.EndTime
	current.ModifiedAt = reservation.ModifiedAt
	current.ModifiedBy = reservation.ModifiedBy
	s.reservations[current.ID] = current

	return nil
}

func (s *ReservationStore) Cancel(ctx context.Context, id, modifiedBy string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return false, s.Err
	}

	current, ok := s.reservations[id]
	if !ok || !current.IsConfirmed() {
		return false, nil
	}

	current.Status = model.StatusCancelled
	current.ModifiedBy = modifiedBy
	current.ModifiedAt = referenceTime
	s.reservations[id] = current

	return true, nil
}
