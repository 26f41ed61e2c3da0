package dto

import (
	"mime/multipart"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"facility/internal/domains/room/model"
	"facility/shared"
	"facility/shared/constant"
	gDto "facility/shared/dto"
	gModel "facility/shared/model"
	"facility/shared/timezone"
)

// RoomRequest is the full room spec. Updates replace every field.
type RoomRequest struct {
	Name       string   `json:"name"       validate:"required,max=100"`
	Capacity   int      `json:"capacity"   validate:"required,min=1"`
	Location   string   `json:"location"   validate:"omitempty,max=200"`
	Facilities []string `json:"facilities" validate:"omitempty,max=50,dive,required,max=50"`
}

// normalizedFacilities trims, drops blanks and duplicates, and sorts.
func (r *RoomRequest) normalizedFacilities() pq.StringArray {
	facilities := pq.StringArray{}

	for _, f := range r.Facilities {
		f = strings.TrimSpace(f)
		if f == constant.Empty || slices.Contains(facilities, f) {
			continue
		}

		facilities = append(facilities, f)
	}

	slices.Sort(facilities)

	return facilities
}

func (r *RoomRequest) ToModel(user string) model.Room {
	now := timezone.Now()

	return model.Room{
		ID:         constant.IDPrefixRoom + uuid.NewString(),
		Name:       strings.TrimSpace(r.Name),
		Capacity:   r.Capacity,
		Location:   strings.TrimSpace(r.Location),
		Facilities: r.normalizedFacilities(),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// ToUpdateFields returns the column set written by an update.
func (r *RoomRequest) ToUpdateFields(user string, at time.Time) map[string]any {
	return map[string]any{
		model.FieldName:          strings.TrimSpace(r.Name),
		model.FieldCapacity:      r.Capacity,
		model.FieldLocation:      strings.TrimSpace(r.Location),
		model.FieldFacilities:    r.normalizedFacilities(),
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: user,
	}
}

// Apply returns current as it reads after ToUpdateFields(user, at) is written.
func (r *RoomRequest) Apply(current model.Room, user string, at time.Time) model.Room {
	current.Name = strings.TrimSpace(r.Name)
	current.Capacity = r.Capacity
	current.Location = strings.TrimSpace(r.Location)
	current.Facilities = r.normalizedFacilities()
	current.ModifiedAt = at
	current.ModifiedBy = user

	return current
}

type UploadRoomImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

type RoomResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Capacity   int      `json:"capacity"`
	Location   string   `json:"location"`
	Facilities []string `json:"facilities"`
	Image      string   `json:"image"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.Location = model.Location
	r.Facilities = []string(model.Facilities)

	if r.Facilities == nil {
		r.Facilities = []string{}
	}

	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
