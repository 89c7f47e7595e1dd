package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/md-evans-dev/meetsched/internal/availability"
	"github.com/md-evans-dev/meetsched/internal/model"
	"github.com/md-evans-dev/meetsched/libs/db"
)

type MeetingRepository struct {
	pool *db.Pool
}

func NewMeetingRepository(pool *db.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

func (r *MeetingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts the meeting and attaches every participant whose email is
// known. The organizer (first participant) must already exist; the handler
// checks that before opening the transaction. Unknown attendee emails are
// skipped rather than failing the booking.
func (r *MeetingRepository) Create(ctx context.Context, tx pgx.Tx, m *model.Meeting) (string, error) {
	id := uuid.NewString()
	var roomID any
	if m.RoomID != "" {
		roomID = m.RoomID
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO meetings (id, name, start_time, end_time, room_id)
		VALUES ($1, $2, $3, $4, $5)
	`, id, m.Name, m.StartTime, m.EndTime, roomID); err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO meeting_attendees (meeting_id, user_id, organizer)
		SELECT $1, id, email = $3
		FROM users
		WHERE email = ANY($2)
	`, id, m.Participants, m.Organizer); err != nil {
		return "", err
	}
	return id, nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id string) (model.Meeting, error) {
	var m model.Meeting
	err := r.pool.QueryRow(ctx, `
		SELECT m.id::text, m.name, m.start_time, m.end_time, COALESCE(m.room_id::text, ''), m.created_at,
			COALESCE((SELECT u.email FROM meeting_attendees ma JOIN users u ON u.id = ma.user_id
				WHERE ma.meeting_id = m.id AND ma.organizer), ''),
			COALESCE((SELECT array_agg(u.email ORDER BY u.email) FROM meeting_attendees ma JOIN users u ON u.id = ma.user_id
				WHERE ma.meeting_id = m.id), '{}')
		FROM meetings m
		WHERE m.id = $1
	`, id).Scan(&m.ID, &m.Name, &m.StartTime, &m.EndTime, &m.RoomID, &m.CreatedAt, &m.Organizer, &m.Participants)
	if err != nil {
		return model.Meeting{}, err
	}
	return m, nil
}

// Update overwrites name and span; zero times leave the column untouched.
func (r *MeetingRepository) Update(ctx context.Context, tx pgx.Tx, id string, m model.Meeting) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE meetings
		SET name = COALESCE(NULLIF($2, ''), name),
			start_time = CASE WHEN $3::timestamptz IS NULL THEN start_time ELSE $3 END,
			end_time = CASE WHEN $4::timestamptz IS NULL THEN end_time ELSE $4 END
		WHERE id = $1
	`, id, m.Name, nullableTime(m.StartTime), nullableTime(m.EndTime))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *MeetingRepository) Delete(ctx context.Context, tx pgx.Tx, id string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IntervalsForParticipants feeds the availability scheduler: every meeting
// interval overlapping [from, to) for any of the given participant emails,
// merged across participants.
func (r *MeetingRepository) IntervalsForParticipants(ctx context.Context, emails []string, from, to time.Time) ([]availability.Interval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT m.start_time, m.end_time
		FROM meetings m
		JOIN meeting_attendees ma ON ma.meeting_id = m.id
		JOIN users u ON u.id = ma.user_id
		WHERE u.email = ANY($1)
			AND m.start_time < $3
			AND m.end_time > $2
		ORDER BY m.start_time ASC
	`, emails, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []availability.Interval
	for rows.Next() {
		var ivl availability.Interval
		if err := rows.Scan(&ivl.Start, &ivl.End); err != nil {
			return nil, err
		}
		intervals = append(intervals, ivl)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return intervals, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
