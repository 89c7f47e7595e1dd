package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type fakeMeetingStore struct {
	intervals []Interval
	err       error
}

func (f *fakeMeetingStore) IntervalsForParticipants(_ context.Context, _ []string, _, _ time.Time) ([]Interval, error) {
	return f.intervals, f.err
}

type fakeRoomStore struct {
	rooms map[string]RoomSchedule
	err   error
}

func (f *fakeRoomStore) RoomSchedules(_ context.Context, _, _ time.Time) (map[string]RoomSchedule, error) {
	return f.rooms, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func oneRoom() map[string]RoomSchedule {
	return map[string]RoomSchedule{"aquarium": {}}
}

func TestSchedule_FirstSuggestionAtNextHalfHour(t *testing.T) {
	now := wednesday.Add(10*time.Hour + 5*time.Minute)
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(now))

	got, err := s.Schedule(context.Background(), Request{Participants: []string{"ava@example.com"}})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected suggestions for an empty calendar")
	}
	if !got[0].Start.Equal(wednesday.Add(10*time.Hour + 30*time.Minute)) {
		t.Fatalf("expected first suggestion 10:30, got %s", got[0].Start.Format(time.RFC3339))
	}
	// Default duration is one hour.
	if got[0].End.Sub(got[0].Start) != time.Hour {
		t.Fatalf("expected 1h span, got %s", got[0].End.Sub(got[0].Start))
	}
}

func TestSchedule_FullyBookedParticipant(t *testing.T) {
	busy := []Interval{
		{Start: wednesday.Add(7 * time.Hour), End: wednesday.Add(17 * time.Hour)},
		{Start: wednesday.AddDate(0, 0, 1).Add(7 * time.Hour), End: wednesday.AddDate(0, 0, 1).Add(17 * time.Hour)},
		{Start: wednesday.AddDate(0, 0, 2).Add(7 * time.Hour), End: wednesday.AddDate(0, 0, 2).Add(17 * time.Hour)},
	}
	s := NewScheduler(&fakeMeetingStore{intervals: busy}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday.Add(8*time.Hour)))

	got, err := s.Schedule(context.Background(), Request{Participants: []string{"ava@example.com"}})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(got))
	}
}

func TestSchedule_ResourceFilterRestrictsRooms(t *testing.T) {
	rooms := map[string]RoomSchedule{
		"aquarium": {Tags: []string{"projector"}},
		"den":      {Tags: []string{"whiteboard"}},
	}
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{rooms: rooms}, fixedClock(wednesday.Add(8*time.Hour)))

	got, err := s.Schedule(context.Background(), Request{
		Participants: []string{"ava@example.com"},
		ResourceTags: []string{"projector"},
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, sug := range got {
		if len(sug.Rooms) != 1 || sug.Rooms[0] != "aquarium" {
			t.Fatalf("expected rooms restricted to [aquarium], got %v", sug.Rooms)
		}
	}
}

func TestSchedule_OneHourGapCannotFitTwoHours(t *testing.T) {
	// Free only 09:00-10:00 on the first day, booked solid otherwise.
	busy := []Interval{
		{Start: wednesday.Add(7 * time.Hour), End: wednesday.Add(9 * time.Hour)},
		{Start: wednesday.Add(10 * time.Hour), End: wednesday.Add(17 * time.Hour)},
		{Start: wednesday.AddDate(0, 0, 1).Add(7 * time.Hour), End: wednesday.AddDate(0, 0, 1).Add(17 * time.Hour)},
		{Start: wednesday.AddDate(0, 0, 2).Add(7 * time.Hour), End: wednesday.AddDate(0, 0, 2).Add(17 * time.Hour)},
	}
	s := NewScheduler(&fakeMeetingStore{intervals: busy}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday.Add(7*time.Hour)))

	got, err := s.Schedule(context.Background(), Request{
		Participants: []string{"ava@example.com"},
		Duration:     "2H",
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("a 1h gap must not satisfy a 2h request, got %d suggestions", len(got))
	}
}

func TestSchedule_DurationCappedAtFourHours(t *testing.T) {
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday.Add(7*time.Hour)))

	got, err := s.Schedule(context.Background(), Request{
		Participants: []string{"ava@example.com"},
		Duration:     "8H",
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	for _, sug := range got {
		if sug.End.Sub(sug.Start) > 4*time.Hour {
			t.Fatalf("suggestion longer than the 4h cap: %s", sug.End.Sub(sug.Start))
		}
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	rooms := map[string]RoomSchedule{
		"aquarium": {},
		"den":      {Bookings: []Interval{iv(9, 0, 11, 0)}},
	}
	busy := []Interval{iv(13, 0, 14, 0)}
	req := Request{Participants: []string{"ava@example.com", "ben@example.com"}, Duration: "1H"}

	s := NewScheduler(&fakeMeetingStore{intervals: busy}, &fakeRoomStore{rooms: rooms}, fixedClock(wednesday.Add(8*time.Hour)))
	first, err := s.Schedule(context.Background(), req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	second, err := s.Schedule(context.Background(), req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical output")
	}
}

func TestSchedule_ValidatesParticipants(t *testing.T) {
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday))

	if _, err := s.Schedule(context.Background(), Request{}); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
	if _, err := s.Schedule(context.Background(), Request{Participants: []string{"  "}}); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants for blank emails, got %v", err)
	}
}

func TestSchedule_ValidatesWorkWindow(t *testing.T) {
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday))

	_, err := s.Schedule(context.Background(), Request{
		Participants: []string{"ava@example.com"},
		WorkStart:    17,
		WorkEnd:      7,
	})
	if !errors.Is(err, ErrInvalidWorkWindow) {
		t.Fatalf("expected ErrInvalidWorkWindow, got %v", err)
	}
}

func TestSchedule_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unreachable")

	s := NewScheduler(&fakeMeetingStore{err: boom}, &fakeRoomStore{rooms: oneRoom()}, fixedClock(wednesday.Add(8*time.Hour)))
	if _, err := s.Schedule(context.Background(), Request{Participants: []string{"ava@example.com"}}); !errors.Is(err, boom) {
		t.Fatalf("expected meeting store error to propagate, got %v", err)
	}

	s = NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{err: boom}, fixedClock(wednesday.Add(8*time.Hour)))
	if _, err := s.Schedule(context.Background(), Request{Participants: []string{"ava@example.com"}}); !errors.Is(err, boom) {
		t.Fatalf("expected room store error to propagate, got %v", err)
	}
}

func TestSchedule_NoRoomsMeansNoSuggestions(t *testing.T) {
	s := NewScheduler(&fakeMeetingStore{}, &fakeRoomStore{}, fixedClock(wednesday.Add(8*time.Hour)))

	got, err := s.Schedule(context.Background(), Request{Participants: []string{"ava@example.com"}})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("no rooms means no proposals, got %d", len(got))
	}
}
