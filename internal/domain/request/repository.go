package request

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines join request data access. Accept is the only
// multi-row operation: it locks the room and performs the decision, the
// seat increment, and the match insert in one transaction.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*Request, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Request, error)
	HasOpenRequest(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	Accept(ctx context.Context, req *Request) (uuid.UUID, error)
	Reject(ctx context.Context, id uuid.UUID, reason *string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new request repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO requests (id, room_id, user_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, req.ID, req.RoomID, req.UserID, req.Status, req.Message, req.CreatedAt)
	if err != nil {
		// Partial unique index on (room_id, user_id) WHERE status = 'pending'
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := `SELECT * FROM requests WHERE id = $1`
	var req Request
	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*Request, error) {
	query := `SELECT * FROM requests WHERE room_id = $1 ORDER BY created_at ASC`
	var reqs []*Request
	err := r.db.SelectContext(ctx, &reqs, query, roomID)
	return reqs, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Request, error) {
	query := `SELECT * FROM requests WHERE user_id = $1 ORDER BY created_at DESC`
	var reqs []*Request
	err := r.db.SelectContext(ctx, &reqs, query, userID)
	return reqs, err
}

func (r *repository) HasOpenRequest(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM requests
			WHERE room_id = $1 AND user_id = $2 AND status = 'pending'
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, roomID, userID)
	return exists, err
}

type lockedRoom struct {
	HostUID           uuid.UUID `db:"host_uid"`
	Status            string    `db:"status"`
	ParticipantsCount int       `db:"participants_count"`
	MaxPeople         int       `db:"max_people"`
}

// Accept transitions a pending request to accepted, takes a seat, and
// creates the host-requester match, all under a row lock on the room.
// The lock serializes concurrent accepts, so the capacity check inside
// the transaction is authoritative.
func (r *repository) Accept(ctx context.Context, req *Request) (uuid.UUID, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	var room lockedRoom
	err = tx.GetContext(ctx, &room, `
		SELECT host_uid, status, participants_count, max_people
		FROM rooms WHERE id = $1 FOR UPDATE
	`, req.RoomID)
	if err != nil {
		return uuid.Nil, err
	}

	if room.Status != "active" {
		return uuid.Nil, ErrRoomClosed
	}
	if room.ParticipantsCount >= room.MaxPeople {
		return uuid.Nil, ErrRoomFull
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE requests SET status = 'accepted', decided_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, req.ID)
	if err != nil {
		return uuid.Nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, err
	}
	if rows == 0 {
		return uuid.Nil, ErrAlreadyDecided
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE rooms SET participants_count = participants_count + 1
		WHERE id = $1
	`, req.RoomID)
	if err != nil {
		return uuid.Nil, err
	}

	matchID := uuid.New()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, room_id, user1_id, user2_id, status, created_at)
		VALUES ($1, $2, $3, $4, 'active', $5)
	`, matchID, req.RoomID, room.HostUID, req.UserID, time.Now())
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return matchID, nil
}

func (r *repository) Reject(ctx context.Context, id uuid.UUID, reason *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE requests SET status = 'rejected', reject_reason = $2, decided_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, reason)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyDecided
	}
	return nil
}
