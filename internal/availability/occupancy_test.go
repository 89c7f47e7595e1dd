package availability

import (
	"testing"
	"time"
)

func testSlots(t *testing.T, count int) []TimeSlot {
	t.Helper()
	start := wednesday.Add(9 * time.Hour)
	slots := make([]TimeSlot, 0, count)
	for i := 0; i < count; i++ {
		s := start.Add(time.Duration(i) * SlotWidth)
		slots = append(slots, TimeSlot{Start: s, End: s.Add(SlotWidth)})
	}
	return slots
}

func TestAnnotate_MarksBusySlots(t *testing.T) {
	slots := testSlots(t, 4) // 09:00..11:00
	meetings := []Interval{iv(9, 45, 10, 15)}

	Annotate(slots, meetings, nil, nil)

	want := []bool{false, true, true, false}
	for i, s := range slots {
		if s.Busy != want[i] {
			t.Fatalf("slot %d: expected busy=%v, got %v", i, want[i], s.Busy)
		}
	}
}

func TestAnnotate_MeetingTouchingSlotEdgeDoesNotBlock(t *testing.T) {
	slots := testSlots(t, 2) // 09:00-09:30, 09:30-10:00
	meetings := []Interval{iv(8, 0, 9, 0)}

	Annotate(slots, meetings, nil, nil)

	for i, s := range slots {
		if s.Busy {
			t.Fatalf("slot %d should be free; meeting only touches the boundary", i)
		}
	}
}

func TestAnnotate_RoomEligibility(t *testing.T) {
	slots := testSlots(t, 2)
	rooms := map[string]RoomSchedule{
		"aquarium": {Tags: []string{"projector", "whiteboard"}},
		"den":      {Bookings: []Interval{iv(9, 0, 9, 30)}},
	}

	Annotate(slots, nil, rooms, nil)

	if got := slots[0].Rooms; len(got) != 1 || got[0] != "aquarium" {
		t.Fatalf("slot 0: expected [aquarium], got %v", got)
	}
	if got := slots[1].Rooms; len(got) != 2 || got[0] != "aquarium" || got[1] != "den" {
		t.Fatalf("slot 1: expected sorted [aquarium den], got %v", got)
	}
}

func TestAnnotate_ResourceFilter(t *testing.T) {
	slots := testSlots(t, 1)
	rooms := map[string]RoomSchedule{
		"aquarium": {Tags: []string{"projector", "whiteboard"}},
		"den":      {Tags: []string{"whiteboard"}},
	}

	Annotate(slots, nil, rooms, []string{"projector"})

	if got := slots[0].Rooms; len(got) != 1 || got[0] != "aquarium" {
		t.Fatalf("expected only the projector room, got %v", got)
	}
}

func TestAnnotate_FilterRequiresAllTags(t *testing.T) {
	slots := testSlots(t, 1)
	rooms := map[string]RoomSchedule{
		"aquarium": {Tags: []string{"projector"}},
	}

	Annotate(slots, nil, rooms, []string{"projector", "video"})

	if len(slots[0].Rooms) != 0 {
		t.Fatalf("room missing a required tag must not be eligible, got %v", slots[0].Rooms)
	}
}

func TestFreeSlots_DropsBusy(t *testing.T) {
	slots := testSlots(t, 3)
	slots[1].Busy = true

	free := FreeSlots(slots)
	if len(free) != 2 {
		t.Fatalf("expected 2 free slots, got %d", len(free))
	}
	if !free[0].Start.Equal(slots[0].Start) || !free[1].Start.Equal(slots[2].Start) {
		t.Fatal("free slots must keep chronological order")
	}
}
