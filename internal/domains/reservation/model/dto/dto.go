package dto

import (
	"facility/internal/domains/reservation/model"
	"facility/shared"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	"facility/shared/failure"
	gModel "facility/shared/model"
	"facility/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID    string `json:"room_id"    validate:"required,max=64"`
	Date      string `json:"date"       validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time"   validate:"required,clock,clockafter=StartTime"`
}

// ToModel parses the request into a confirmed reservation owned by owner.
func (c *CreateReservationRequest) ToModel(owner string) (model.Reservation, error) {
	date, err := model.ParseDate(c.Date)
	if err != nil {
		return model.Reservation{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	interval, err := parseInterval(c.StartTime, c.EndTime)
	if err != nil {
		return model.Reservation{}, err
	}

	now := timezone.Now()

	return model.Reservation{
		ID:          constant.IDPrefixReservation + uuid.NewString(),
		RoomID:      c.RoomID,
		BookingDate: model.NewBookingKey(c.RoomID, date).Date,
		StartTime:   interval.Start,
		EndTime:     interval.End,
		OwnerID:     owner,
		Status:      model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}, nil
}

type RescheduleReservationRequest struct {
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time"   validate:"required,clock,clockafter=StartTime"`
}

func (r *RescheduleReservationRequest) Interval() (model.Interval, error) {
	return parseInterval(r.StartTime, r.EndTime)
}

func parseInterval(start, end string) (model.Interval, error) {
	interval, err := model.ParseInterval(start, end)
	if err != nil {
		return interval, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !interval.Valid() {
		return interval, failure.BadRequestFromString("start_time must be before end_time") //nolint:wrapcheck
	}

	return interval, nil
}

type CreateReservationResponse struct {
	ID string `json:"id"`
}

type ReservationResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	OwnerID   string `json:"owner_id"`
	Status    string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.RoomID = m.RoomID
	r.Date = m.Key().Day()
	r.StartTime = m.StartTime.String()
	r.EndTime = m.EndTime.String()
	r.OwnerID = m.OwnerID
	r.Status = m.Status
	r.Metadata.FromModel(m.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityResponse lists the booked slots of a room on one date. Owners are not exposed.
type AvailabilityResponse struct {
	RoomID string         `json:"room_id"`
	Date   string         `json:"date"`
	Booked []SlotResponse `json:"booked"`
}

func (a *AvailabilityResponse) FromModels(key model.BookingKey, models []model.Reservation) {
	a.RoomID = key.RoomID
	a.Date = key.Day()

	a.Booked = make([]SlotResponse, len(models))
	for i, mod := range models {
		a.Booked[i] = SlotResponse{
			StartTime: mod.StartTime.String(),
			EndTime:   mod.EndTime.String(),
		}
	}
}
