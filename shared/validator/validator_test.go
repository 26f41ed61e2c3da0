package validator_test

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"facility/shared/validator"
)

type roomSpec struct {
	Name       string   `json:"name"       validate:"required,max=20"`
	Capacity   int      `json:"capacity"   validate:"required,min=1"`
	Location   string   `json:"location"   validate:"omitempty,max=10"`
	Facilities []string `json:"facilities" validate:"omitempty,max=2,dive,required"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        roomSpec
		wantMessage string
	}{
		{
			name: "valid room",
			data: roomSpec{Name: "Orchid", Capacity: 8, Location: "Level 2", Facilities: []string{"projector"}},
		},
		{
			name:        "missing name",
			data:        roomSpec{Capacity: 8},
			wantMessage: "name is required",
		},
		{
			name:        "zero capacity",
			data:        roomSpec{Name: "Orchid"},
			wantMessage: "capacity is required",
		},
		{
			name:        "negative capacity",
			data:        roomSpec{Name: "Orchid", Capacity: -2},
			wantMessage: "capacity must be greater than or equal to 1",
		},
		{
			name:        "long location",
			data:        roomSpec{Name: "Orchid", Capacity: 8, Location: "Tower B, Level 12"},
			wantMessage: "location must be less than or equal to 10",
		},
		{
			name:        "blank facility",
			data:        roomSpec{Name: "Orchid", Capacity: 8, Facilities: []string{""}},
			wantMessage: "facilities[0] is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMessage == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil || err.Error() != tt.wantMessage {
				t.Errorf("expected %q, got %v", tt.wantMessage, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		tag     string
		wantErr bool
	}{
		{name: "valid date", value: "2024-02-29", tag: "date"},
		{name: "impossible date", value: "2023-02-29", tag: "date", wantErr: true},
		{name: "valid clock", value: "23:59", tag: "clock"},
		{name: "clock past midnight", value: "24:00", tag: "clock", wantErr: true},
		{name: "clock with zero seconds", value: "09:30:00", tag: "clock"},
		{name: "clock with seconds", value: "09:00:30", tag: "clock", wantErr: true},
		{name: "capacity in range", value: 12, tag: "min=1", wantErr: false},
		{name: "empty required", value: "", tag: "required", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.value, tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"name":"Orchid","capacity":8}`},
		{name: "failing rule", body: `{"name":"Orchid","capacity":0}`, wantErr: true},
		{name: "wrong type", body: `{"name":"Orchid","capacity":"eight"}`, wantErr: true},
		{name: "malformed", body: `{"name":}`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data roomSpec

			err := validator.Validate(strings.NewReader(tt.body), &data)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateStruct_ImageUpload(t *testing.T) {
	type upload struct {
		Image *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpeg,maxfilesize=1"`
	}

	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "room.png",
			Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
			Size:     size,
		}
	}

	tests := []struct {
		name    string
		image   *multipart.FileHeader
		wantErr bool
	}{
		{name: "png within limit", image: header("image/png", 512)},
		{name: "jpeg at limit", image: header("image/jpeg", 1<<20)},
		{name: "over limit", image: header("image/png", 1<<20+1), wantErr: true},
		{name: "unsupported type", image: header("application/pdf", 512), wantErr: true},
		{name: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&upload{Image: tt.image})
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

type slotRequest struct {
	Date      string `json:"date"       validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time"   validate:"required,clock,clockafter=StartTime"`
}

func TestValidateStruct_BookingRules(t *testing.T) {
	tests := []struct {
		name        string
		data        slotRequest
		wantMessage string
	}{
		{
			name: "valid slot",
			data: slotRequest{Date: "2024-06-01", StartTime: "09:00", EndTime: "10:30"},
		},
		{
			name:        "malformed date",
			data:        slotRequest{Date: "01/06/2024", StartTime: "09:00", EndTime: "10:00"},
			wantMessage: "date must be a date in YYYY-MM-DD format",
		},
		{
			name:        "malformed clock",
			data:        slotRequest{Date: "2024-06-01", StartTime: "9am", EndTime: "10:00"},
			wantMessage: "start_time must be a time in HH:MM format",
		},
		{
			name:        "end equal to start",
			data:        slotRequest{Date: "2024-06-01", StartTime: "09:00", EndTime: "09:00"},
			wantMessage: "end_time must be later than StartTime",
		},
		{
			name:        "end before start",
			data:        slotRequest{Date: "2024-06-01", StartTime: "11:00", EndTime: "10:00"},
			wantMessage: "end_time must be later than StartTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMessage == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil || err.Error() != tt.wantMessage {
				t.Errorf("expected %q, got %v", tt.wantMessage, err)
			}
		})
	}
}
