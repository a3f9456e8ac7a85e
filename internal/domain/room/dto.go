package room

import (
	"time"
)

// CreateRoomRequest is the POST payload. The host is always the actor;
// there is no way to create a room on someone else's behalf.
type CreateRoomRequest struct {
	Title      string    `json:"title" validate:"required,min=2,max=100"`
	Category   string    `json:"category" validate:"required,room_category"`
	Lat        float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lng        float64   `json:"lng" validate:"gte=-180,lte=180"`
	PlaceText  string    `json:"place_text" validate:"required,max=200"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	MaxPeople  int       `json:"max_people" validate:"required,gte=2,lte=50"`
	Fee        int       `json:"fee" validate:"gte=0"`
	Visibility string    `json:"visibility" validate:"omitempty,visibility"`
}

// UpdateRoomRequest is the PATCH payload. Status transitions (cancel,
// complete) ride the same endpoint.
type UpdateRoomRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Category  *string    `json:"category,omitempty" validate:"omitempty,room_category"`
	Lat       *float64   `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng       *float64   `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	PlaceText *string    `json:"place_text,omitempty" validate:"omitempty,max=200"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	MaxPeople *int       `json:"max_people,omitempty" validate:"omitempty,gte=2,lte=50"`
	Fee       *int       `json:"fee,omitempty" validate:"omitempty,gte=0"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=cancelled completed"`
}

// Filter narrows a room listing. Bounding box fields come from the map
// viewport; all fields are optional.
type Filter struct {
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
	Category *string
	Status   *string
	Limit    int
	Offset   int
}
