package model

import (
	"fmt"
	"time"

	"facility/shared/constant"
	"facility/shared/model"
)

const (
	EntityName = "reservation"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldBookingDate = "booking_date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldOwnerID     = "owner_id"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"

	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Reservation struct {
	ID          string    `db:"id"`
	RoomID      string    `db:"room_id"`
	BookingDate time.Time `db:"booking_date"`
	StartTime   Clock     `db:"start_time"`
	EndTime     Clock     `db:"end_time"`
	OwnerID     string    `db:"owner_id"`
	Status      string    `db:"status"`
	model.Metadata
}

func (r Reservation) Key() BookingKey {
	return NewBookingKey(r.RoomID, r.BookingDate)
}

func (r Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

func (r Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// BookingKey is the unit of conflict checking: one room on one calendar date.
type BookingKey struct {
	RoomID string
	Date   time.Time
}

// NewBookingKey drops the time-of-day and location of date.
func NewBookingKey(roomID string, date time.Time) BookingKey {
	y, m, d := date.Date()

	return BookingKey{
		RoomID: roomID,
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func (k BookingKey) Day() string {
	return k.Date.Format(constant.DayFormat)
}

func (k BookingKey) String() string {
	return k.RoomID + "#" + k.Day()
}

func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}

	return date, nil
}

// Interval is a half-open [Start, End) range of clock time within one day.
type Interval struct {
	Start Clock
	End   Clock
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}

	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}

	return Interval{Start: s, End: e}, nil
}

func (i Interval) Valid() bool {
	return i.Start.Valid() && i.End.Valid() && i.Start < i.End
}

// Overlaps reports whether the two intervals share any instant. Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Snapshot is a consistent read of one booking key: the version token observed and the
// confirmed reservations under it, ordered by start time.
type Snapshot struct {
	Key          BookingKey
	Version      int64
	Reservations []Reservation
}
