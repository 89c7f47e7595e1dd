package availability

import "sort"

// RoomSchedule is one room as the scheduler sees it: its resource tags and
// the intervals already booked on its calendar within the horizon.
type RoomSchedule struct {
	Tags     []string
	Bookings []Interval
}

// Annotate marks each slot in place. A slot is busy when any participant
// meeting overlaps it. A room is eligible for a slot when it has no
// overlapping booking and, if a resource filter is given, carries every
// requested tag. Room IDs come out sorted so downstream intersections are
// deterministic.
func Annotate(slots []TimeSlot, meetings []Interval, rooms map[string]RoomSchedule, requiredTags []string) {
	roomIDs := make([]string, 0, len(rooms))
	for id, rs := range rooms {
		if hasAllTags(rs.Tags, requiredTags) {
			roomIDs = append(roomIDs, id)
		}
	}
	sort.Strings(roomIDs)

	for i := range slots {
		span := slots[i].Interval()
		slots[i].Busy = overlapsAny(span, meetings)

		var eligible []string
		for _, id := range roomIDs {
			if !overlapsAny(span, rooms[id].Bookings) {
				eligible = append(eligible, id)
			}
		}
		slots[i].Rooms = eligible
	}
}

func hasAllTags(tags, required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
