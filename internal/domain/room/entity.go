package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Visibility controls who may see a room
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Status represents the room lifecycle state
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Room represents a location-tagged meetup room
type Room struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	HostUID           uuid.UUID  `db:"host_uid" json:"host_uid"`
	Title             string     `db:"title" json:"title"`
	Category          string     `db:"category" json:"category"`
	Lat               float64    `db:"lat" json:"lat"`
	Lng               float64    `db:"lng" json:"lng"`
	PlaceText         string     `db:"place_text" json:"place_text"`
	StartAt           time.Time  `db:"start_at" json:"start_at"`
	MaxPeople         int        `db:"max_people" json:"max_people"`
	Fee               int        `db:"fee" json:"fee"`
	Visibility        Visibility `db:"visibility" json:"visibility"`
	Status            Status     `db:"status" json:"status"`
	ParticipantsCount int        `db:"participants_count" json:"participants_count"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// IsFull reports whether the room has reached capacity
func (r *Room) IsFull() bool {
	return r.ParticipantsCount >= r.MaxPeople
}

// View returns the policy evaluator's slice of this row
func (r *Room) View() policy.RoomView {
	return policy.RoomView{
		ID:         r.ID,
		HostUID:    r.HostUID,
		Visibility: string(r.Visibility),
		Status:     string(r.Status),
	}
}
