package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MeetingStore supplies the existing meeting intervals for a set of
// participants within the horizon, merged across participants.
type MeetingStore interface {
	IntervalsForParticipants(ctx context.Context, emails []string, from, to time.Time) ([]Interval, error)
}

// RoomStore supplies every room with its resource tags and the intervals
// booked within the horizon.
type RoomStore interface {
	RoomSchedules(ctx context.Context, from, to time.Time) (map[string]RoomSchedule, error)
}

var (
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrInvalidWorkWindow = errors.New("work window start must be before end")
)

// Request describes one scheduling question. Everything except Participants
// has a default.
type Request struct {
	Participants []string
	ResourceTags []string
	// Duration is a spec like "2H" or "1H30M"; empty means one hour.
	Duration    string
	HorizonDays int
	WorkStart   int
	WorkEnd     int
}

func (r *Request) applyDefaults() {
	if r.HorizonDays == 0 {
		r.HorizonDays = DefaultHorizonDays
	}
	// Hour zero counts as unset; the working day never starts at midnight.
	if r.WorkStart == 0 {
		r.WorkStart = DefaultWorkStart
	}
	if r.WorkEnd == 0 {
		r.WorkEnd = DefaultWorkEnd
	}

	participants := r.Participants[:0]
	for _, p := range r.Participants {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}
	r.Participants = participants
}

func (r Request) validate() error {
	if len(r.Participants) == 0 {
		return ErrNoParticipants
	}
	if r.WorkStart >= r.WorkEnd || r.WorkStart < 0 || r.WorkEnd > 24 || r.HorizonDays <= 0 {
		return ErrInvalidWorkWindow
	}
	return nil
}

// Scheduler proposes meeting times. It reads from the injected stores and
// holds no mutable state, so a single instance serves concurrent requests.
type Scheduler struct {
	meetings MeetingStore
	rooms    RoomStore
	now      func() time.Time
}

// NewScheduler wires the scheduler to its read-only collaborators. A nil
// clock means time.Now in UTC; tests inject a fixed one.
func NewScheduler(meetings MeetingStore, rooms RoomStore, now func() time.Time) *Scheduler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Scheduler{meetings: meetings, rooms: rooms, now: now}
}

// Schedule returns up to MaxSuggestions proposals ordered by start time,
// earliest first. An empty result means no fitting run exists; only invalid
// input or a store failure produces an error. Both store reads complete
// before annotation begins.
func (s *Scheduler) Schedule(ctx context.Context, req Request) ([]Suggestion, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	slots := BuildTimetable(s.now(), req.HorizonDays, req.WorkStart, req.WorkEnd)
	if len(slots) == 0 {
		return nil, nil
	}
	from, to := slots[0].Start, slots[len(slots)-1].End

	meetings, err := s.meetings.IntervalsForParticipants(ctx, req.Participants, from, to)
	if err != nil {
		return nil, fmt.Errorf("load participant meetings: %w", err)
	}
	rooms, err := s.rooms.RoomSchedules(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load room bookings: %w", err)
	}

	Annotate(slots, meetings, rooms, req.ResourceTags)
	return Suggest(FreeSlots(slots), ParseDurationSpec(req.Duration)), nil
}
