package model

import "time"

const (
	EventCreated     = "reservation.created"
	EventRescheduled = "reservation.rescheduled"
	EventCancelled   = "reservation.cancelled"
)

// Event is published after a reservation change has been committed.
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	Date          string    `json:"date"`
	StartTime     Clock     `json:"start_time"`
	EndTime       Clock     `json:"end_time"`
	OwnerID       string    `json:"owner_id"`
	Status        string    `json:"status"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, r Reservation, actor string, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		Date:          r.Key().Day(),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		OwnerID:       r.OwnerID,
		Status:        r.Status,
		Actor:         actor,
		OccurredAt:    at,
	}
}
