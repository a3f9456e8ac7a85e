package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines room data access interface
type Repository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	Update(ctx context.Context, room *Room) error
	// List returns rooms visible to the viewer: block-filtered against the
	// host in both directions and restricted to public rooms unless the
	// viewer hosts or participates. uuid.Nil means an anonymous viewer.
	List(ctx context.Context, viewerID uuid.UUID, filter *Filter) ([]*Room, error)
	// IsMatchParticipant reports whether the user holds a match on the room
	IsMatchParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new room repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, host_uid, title, category, lat, lng, place_text,
			start_at, max_people, fee, visibility, status, participants_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.HostUID,
		room.Title,
		room.Category,
		room.Lat,
		room.Lng,
		room.PlaceText,
		room.StartAt,
		room.MaxPeople,
		room.Fee,
		room.Visibility,
		room.Status,
		room.ParticipantsCount,
		room.CreatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT * FROM rooms WHERE id = $1`
	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) Update(ctx context.Context, room *Room) error {
	query := `
		UPDATE rooms
		SET title = $2, category = $3, lat = $4, lng = $5, place_text = $6,
			start_at = $7, max_people = $8, fee = $9, status = $10
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.Title,
		room.Category,
		room.Lat,
		room.Lng,
		room.PlaceText,
		room.StartAt,
		room.MaxPeople,
		room.Fee,
		room.Status,
	)
	return err
}

func (r *repository) List(ctx context.Context, viewerID uuid.UUID, filter *Filter) ([]*Room, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	// Default to active rooms unless the caller asks otherwise
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	} else {
		conditions = append(conditions, "r.status = 'active'")
	}

	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("r.category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.MinLat != nil && filter.MaxLat != nil {
		conditions = append(conditions, fmt.Sprintf("r.lat BETWEEN $%d AND $%d", argIndex, argIndex+1))
		args = append(args, *filter.MinLat, *filter.MaxLat)
		argIndex += 2
	}

	if filter.MinLng != nil && filter.MaxLng != nil {
		conditions = append(conditions, fmt.Sprintf("r.lng BETWEEN $%d AND $%d", argIndex, argIndex+1))
		args = append(args, *filter.MinLng, *filter.MaxLng)
		argIndex += 2
	}

	if viewerID == uuid.Nil {
		// Anonymous viewers see public rooms only
		conditions = append(conditions, "r.visibility = 'public'")
	} else {
		// Visibility: public, or the viewer hosts or holds a match on it
		conditions = append(conditions, fmt.Sprintf(`(
			r.visibility = 'public'
			OR r.host_uid = $%d
			OR EXISTS (
				SELECT 1 FROM matches m
				WHERE m.room_id = r.id AND (m.user1_id = $%d OR m.user2_id = $%d)
			)
		)`, argIndex, argIndex, argIndex))

		// Block propagation: rows authored by a blocked peer never reach
		// the caller, whichever direction the edge points.
		conditions = append(conditions, fmt.Sprintf(`NOT EXISTS (
			SELECT 1 FROM blocked_users b
			WHERE (b.blocker_id = $%d AND b.blocked_id = r.host_uid)
			   OR (b.blocker_id = r.host_uid AND b.blocked_id = $%d)
		)`, argIndex, argIndex))

		args = append(args, viewerID)
		argIndex++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT r.* FROM rooms r
		WHERE %s
		ORDER BY r.start_at ASC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), argIndex, argIndex+1)
	args = append(args, limit, filter.Offset)

	var rooms []*Room
	err := r.db.SelectContext(ctx, &rooms, query, args...)
	return rooms, err
}

func (r *repository) IsMatchParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE room_id = $1 AND (user1_id = $2 OR user2_id = $2)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, roomID, userID)
	return exists, err
}
