package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/md-evans-dev/meetsched/internal/availability"
	"github.com/md-evans-dev/meetsched/internal/model"
	"github.com/md-evans-dev/meetsched/libs/db"
)

type RoomRepository struct {
	pool *db.Pool
}

func NewRoomRepository(pool *db.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create inserts the room and its resource tags in one transaction.
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO rooms (id, name) VALUES ($1, $2)
	`, id, room.Name); err != nil {
		return "", err
	}
	for _, tag := range room.Resources {
		if _, err := tx.Exec(ctx, `
			INSERT INTO room_resources (room_id, tag) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, tag); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (model.Room, error) {
	return r.get(ctx, `WHERE r.id = $1`, id)
}

func (r *RoomRepository) GetByName(ctx context.Context, name string) (model.Room, error) {
	return r.get(ctx, `WHERE r.name = $1`, name)
}

func (r *RoomRepository) get(ctx context.Context, where string, arg any) (model.Room, error) {
	var room model.Room
	err := r.pool.QueryRow(ctx, `
		SELECT r.id::text, r.name, r.created_at,
			COALESCE(array_agg(rr.tag ORDER BY rr.tag) FILTER (WHERE rr.tag IS NOT NULL), '{}')
		FROM rooms r
		LEFT JOIN room_resources rr ON rr.room_id = r.id
	`+where+`
		GROUP BY r.id
	`, arg).Scan(&room.ID, &room.Name, &room.CreatedAt, &room.Resources)
	if err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// List returns all rooms, optionally only those carrying the given resource
// tag.
func (r *RoomRepository) List(ctx context.Context, resource string) ([]model.Room, error) {
	query := `
		SELECT r.id::text, r.name, r.created_at,
			COALESCE(array_agg(rr.tag ORDER BY rr.tag) FILTER (WHERE rr.tag IS NOT NULL), '{}')
		FROM rooms r
		LEFT JOIN room_resources rr ON rr.room_id = r.id
		GROUP BY r.id
		ORDER BY r.name ASC
	`
	args := []any{}
	if resource != "" {
		query = `
			SELECT r.id::text, r.name, r.created_at,
				COALESCE(array_agg(rr.tag ORDER BY rr.tag) FILTER (WHERE rr.tag IS NOT NULL), '{}')
			FROM rooms r
			LEFT JOIN room_resources rr ON rr.room_id = r.id
			WHERE r.id IN (SELECT room_id FROM room_resources WHERE tag = $1)
			GROUP BY r.id
			ORDER BY r.name ASC
		`
		args = append(args, resource)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt, &room.Resources); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return rooms, nil
}

func (r *RoomRepository) Rename(ctx context.Context, id, name string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE rooms SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListMeetings returns the meetings booked into a room from a given instant
// forward.
func (r *RoomRepository) ListMeetings(ctx context.Context, roomID string, from time.Time, limit int) ([]model.Meeting, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, start_time, end_time, COALESCE(room_id::text, ''), created_at
		FROM meetings
		WHERE room_id = $1 AND end_time > $2
		ORDER BY start_time ASC
		LIMIT $3
	`, roomID, from, limit)
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

// RoomSchedules feeds the availability scheduler: every room with its tags
// plus the booked intervals overlapping [from, to).
func (r *RoomRepository) RoomSchedules(ctx context.Context, from, to time.Time) (map[string]availability.RoomSchedule, error) {
	rooms, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}

	schedules := make(map[string]availability.RoomSchedule, len(rooms))
	for _, room := range rooms {
		schedules[room.ID] = availability.RoomSchedule{Tags: room.Resources}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT room_id::text, start_time, end_time
		FROM meetings
		WHERE room_id IS NOT NULL
			AND start_time < $2
			AND end_time > $1
		ORDER BY start_time ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var roomID string
		var booking availability.Interval
		if err := rows.Scan(&roomID, &booking.Start, &booking.End); err != nil {
			return nil, err
		}
		sched, ok := schedules[roomID]
		if !ok {
			continue
		}
		sched.Bookings = append(sched.Bookings, booking)
		schedules[roomID] = sched
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return schedules, nil
}
