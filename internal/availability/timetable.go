package availability

import "time"

// SlotWidth is the discretization unit of the search horizon.
const SlotWidth = 30 * time.Minute

// Defaults for the search horizon. WorkStart/WorkEnd are hours of the day
// in the reference location.
const (
	DefaultHorizonDays = 3
	DefaultWorkStart   = 7
	DefaultWorkEnd     = 17
)

// TimeSlot is one 30-minute candidate within the search horizon. A fresh
// sequence is built per request, mutated during the computation and then
// discarded; nothing is shared between requests.
type TimeSlot struct {
	Start time.Time
	End   time.Time

	// Busy is set when any participant has a meeting overlapping the slot.
	Busy bool
	// Rooms holds the IDs of rooms still eligible for this slot, sorted.
	Rooms []string
}

// Interval returns the slot's span for overlap checks, so participant-busy
// and room-busy decisions go through the same comparison.
func (s TimeSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// BuildTimetable returns the ordered slot skeleton covering the horizon:
// exactly (workEnd-workStart)*2*horizonDays slots of SlotWidth, starting at
// the first slot boundary at or after now that falls within working hours on
// a weekday. End-of-day rollover skips Saturdays and Sundays, so the horizon
// counts working days only.
func BuildTimetable(now time.Time, horizonDays, workStart, workEnd int) []TimeSlot {
	if horizonDays <= 0 || workStart < 0 || workEnd > 24 || workStart >= workEnd {
		return nil
	}

	total := (workEnd - workStart) * 2 * horizonDays
	slots := make([]TimeSlot, 0, total)

	t := nextSlotBoundary(now)
	for len(slots) < total {
		t = nextWorkingTime(t, workStart, workEnd)
		slots = append(slots, TimeSlot{Start: t, End: t.Add(SlotWidth)})
		t = t.Add(SlotWidth)
	}
	return slots
}

// nextSlotBoundary rounds t up to the next :00 or :30. An instant already on
// a boundary stays put.
func nextSlotBoundary(t time.Time) time.Time {
	hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	switch offset := t.Sub(hour); {
	case offset == 0:
		return hour
	case offset <= 30*time.Minute:
		return hour.Add(30 * time.Minute)
	default:
		return hour.Add(time.Hour)
	}
}

// nextWorkingTime advances t to the first instant that is on a weekday and
// inside the [workStart, workEnd) window.
func nextWorkingTime(t time.Time, workStart, workEnd int) time.Time {
	for {
		switch {
		case isWeekend(t):
			t = nextWorkday(t, workStart)
		case t.Hour() >= workEnd:
			t = nextWorkday(t, workStart)
		case t.Hour() < workStart:
			t = time.Date(t.Year(), t.Month(), t.Day(), workStart, 0, 0, 0, t.Location())
		default:
			return t
		}
	}
}

// nextWorkday returns workStart o'clock on the next non-weekend day after t.
func nextWorkday(t time.Time, workStart int) time.Time {
	d := t.AddDate(0, 0, 1)
	for isWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), workStart, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
