package availability

import (
	"testing"
	"time"
)

func freeRun(start time.Time, rooms [][]string) []TimeSlot {
	slots := make([]TimeSlot, 0, len(rooms))
	for i, r := range rooms {
		s := start.Add(time.Duration(i) * SlotWidth)
		slots = append(slots, TimeSlot{Start: s, End: s.Add(SlotWidth), Rooms: r})
	}
	return slots
}

func TestSuggest_EmitsRunWithIntersection(t *testing.T) {
	start := wednesday.Add(9 * time.Hour)
	free := freeRun(start, [][]string{
		{"aquarium", "den"},
		{"aquarium"},
		{"aquarium", "den"},
	})

	got := Suggest(free, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	first := got[0]
	if !first.Start.Equal(start) || !first.End.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected first span %s..%s", first.Start, first.End)
	}
	if len(first.Rooms) != 1 || first.Rooms[0] != "aquarium" {
		t.Fatalf("expected intersection [aquarium], got %v", first.Rooms)
	}
	// Overlapping proposals are expected: the second run starts one slot later.
	if !got[1].Start.Equal(start.Add(SlotWidth)) {
		t.Fatalf("expected second suggestion at 09:30, got %s", got[1].Start)
	}
}

func TestSuggest_AdjacencyBreakAbandonsRun(t *testing.T) {
	start := wednesday.Add(16 * time.Hour)
	// 16:00-16:30 and 16:30-17:00, then the next workday. A 2-slot run must
	// not span the day boundary.
	free := freeRun(start, [][]string{{"den"}, {"den"}})
	nextDay := wednesday.Add(24 * time.Hour).Add(7 * time.Hour)
	free = append(free, freeRun(nextDay, [][]string{{"den"}})...)

	got := Suggest(free, 2)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if !got[0].Start.Equal(start) {
		t.Fatalf("expected 16:00 start, got %s", got[0].Start)
	}
}

func TestSuggest_EmptyIntersectionAbandonsRun(t *testing.T) {
	start := wednesday.Add(9 * time.Hour)
	free := freeRun(start, [][]string{{"aquarium"}, {"den"}, {"den"}})

	got := Suggest(free, 2)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if !got[0].Start.Equal(start.Add(SlotWidth)) {
		t.Fatalf("expected run starting 09:30, got %s", got[0].Start)
	}
	if len(got[0].Rooms) != 1 || got[0].Rooms[0] != "den" {
		t.Fatalf("expected [den], got %v", got[0].Rooms)
	}
}

func TestSuggest_RunTooShort(t *testing.T) {
	// One free hour cannot satisfy a two-hour request.
	start := wednesday.Add(9 * time.Hour)
	free := freeRun(start, [][]string{{"den"}, {"den"}})

	if got := Suggest(free, 4); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(got))
	}
}

func TestSuggest_CapsAtMaxSuggestions(t *testing.T) {
	rooms := make([][]string, 20)
	for i := range rooms {
		rooms[i] = []string{"den"}
	}
	free := freeRun(wednesday.Add(7*time.Hour), rooms)

	got := Suggest(free, 2)
	if len(got) != MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %d", MaxSuggestions, len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Start.Before(got[i].Start) {
			t.Fatal("suggestions must be ordered by start ascending")
		}
	}
}

func TestSuggest_SkipsRoomlessStarts(t *testing.T) {
	start := wednesday.Add(9 * time.Hour)
	free := freeRun(start, [][]string{nil, {"den"}, {"den"}})

	got := Suggest(free, 2)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if len(got[0].Rooms) == 0 {
		t.Fatal("suggestion rooms must never be empty")
	}
}

func TestIntersect(t *testing.T) {
	got := intersect([]string{"a", "b", "d"}, []string{"b", "c", "d"})
	if len(got) != 2 || got[0] != "b" || got[1] != "d" {
		t.Fatalf("expected [b d], got %v", got)
	}
	if got := intersect([]string{"a"}, nil); got != nil {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}
