package availability

import "strings"

const (
	// MaxRunSlots caps a request at four contiguous working hours. Longer
	// requests are clamped rather than rejected, keeping the run search
	// bounded.
	MaxRunSlots = 8
	// DefaultRunSlots is one hour, used when the spec is empty or malformed.
	DefaultRunSlots = 2

	minutesPerSlot = 30
)

// ParseDurationSpec converts a human duration spec like "2H", "90M" or
// "1D2H30M" (case-insensitive) into a slot count, rounding partial slots up.
// The policy is lenient: anything unparseable falls back to DefaultRunSlots
// instead of erroring, and the result is clamped to MaxRunSlots. A day
// component always saturates the cap.
func ParseDurationSpec(spec string) int {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	if spec == "" {
		return DefaultRunSlots
	}

	minutes := 0
	value := 0
	pending := false
	for _, r := range spec {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
			pending = true
		case r == 'D' || r == 'H' || r == 'M':
			if !pending {
				return DefaultRunSlots
			}
			switch r {
			case 'D':
				minutes += value * 24 * 60
			case 'H':
				minutes += value * 60
			case 'M':
				minutes += value
			}
			value = 0
			pending = false
		default:
			return DefaultRunSlots
		}
	}
	if pending || minutes <= 0 {
		// Trailing number without a unit, or a zero-length request.
		return DefaultRunSlots
	}

	slots := (minutes + minutesPerSlot - 1) / minutesPerSlot
	if slots > MaxRunSlots {
		slots = MaxRunSlots
	}
	return slots
}
