package availability

import "time"

// MaxSuggestions bounds how many proposals a single request produces.
const MaxSuggestions = 5

// Suggestion is a concrete meeting proposal: a start/end and the non-empty
// set of rooms free for the whole span.
type Suggestion struct {
	Start time.Time
	End   time.Time
	Rooms []string
}

// FreeSlots drops slots where the participant side is busy. Busy slots can
// never start or extend a proposal; the surviving slots keep their original
// order, and adjacency is recovered later by comparing prev.End to
// cur.Start.
func FreeSlots(slots []TimeSlot) []TimeSlot {
	free := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if !s.Busy {
			free = append(free, s)
		}
	}
	return free
}

// Suggest scans the free slots left to right for runs of runLength
// chronologically adjacent slots whose room sets share a non-empty
// intersection, emitting the earliest MaxSuggestions of them. Runs starting
// at successive slots may overlap in time; that is intentional, since a
// 9:00 and a 9:30 proposal are both useful answers. No run of sufficient
// length is not an error: the result is simply empty.
func Suggest(free []TimeSlot, runLength int) []Suggestion {
	if runLength <= 0 {
		return nil
	}

	var out []Suggestion
	for i := 0; i < len(free) && len(out) < MaxSuggestions; i++ {
		rooms := free[i].Rooms
		if len(rooms) == 0 {
			continue
		}
		count := 1
		for j := i + 1; count < runLength && j < len(free); j++ {
			if !free[j-1].End.Equal(free[j].Start) {
				break
			}
			shared := intersect(rooms, free[j].Rooms)
			if len(shared) == 0 {
				break
			}
			rooms = shared
			count++
		}
		if count == runLength {
			out = append(out, Suggestion{
				Start: free[i].Start,
				End:   free[i+count-1].End,
				Rooms: rooms,
			})
		}
	}
	return out
}

// intersect merges two sorted room ID slices without mutating either.
func intersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
