package model

import (
	"github.com/lib/pq"

	"facility/shared/model"
)

const (
	EntityName = "room"

	FieldID         = "id"
	FieldName       = "name"
	FieldLocation   = "location"
	FieldCapacity   = "capacity"
	FieldFacilities = "facilities"
	FieldImage      = "image"
)

type Room struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Capacity   int            `db:"capacity"`
	Location   string         `db:"location"`
	Facilities pq.StringArray `db:"facilities"`
	Image      string         `db:"image"`
	model.Metadata
}
