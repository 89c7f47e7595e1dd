package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/md-evans-dev/meetsched/internal/model"
	"github.com/md-evans-dev/meetsched/libs/db"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, given_name, family_name)
		VALUES ($1, $2, $3, $4)
	`, id, u.Email, u.GivenName, u.FamilyName)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, given_name, family_name, created_at
		FROM users
	`+where, arg).Scan(&u.ID, &u.Email, &u.GivenName, &u.FamilyName, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Update overwrites only the fields provided; empty strings leave the column
// untouched.
func (r *UserRepository) Update(ctx context.Context, id string, u model.User) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = COALESCE(NULLIF($2, ''), email),
			given_name = COALESCE(NULLIF($3, ''), given_name),
			family_name = COALESCE(NULLIF($4, ''), family_name)
		WHERE id = $1
	`, id, u.Email, u.GivenName, u.FamilyName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListMeetings returns the user's meetings from a given instant forward,
// earliest first.
func (r *UserRepository) ListMeetings(ctx context.Context, userID string, from time.Time, limit int) ([]model.Meeting, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.name, m.start_time, m.end_time, COALESCE(m.room_id::text, ''), m.created_at
		FROM meetings m
		JOIN meeting_attendees ma ON ma.meeting_id = m.id
		WHERE ma.user_id = $1 AND m.end_time > $2
		ORDER BY m.start_time ASC
		LIMIT $3
	`, userID, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.ID, &m.Name, &m.StartTime, &m.EndTime, &m.RoomID, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return meetings, nil
}
