package availability

import "testing"

func TestParseDurationSpec(t *testing.T) {
	cases := []struct {
		spec string
		want int
	}{
		{"", DefaultRunSlots},
		{"30M", 1},
		{"1H", 2},
		{"2H", 4},
		{"90M", 3},
		{"1H30M", 3},
		{"2h", 4},
		{" 1H ", 2},
		// Partial slots round up.
		{"45M", 2},
		{"31M", 2},
		// Capped at four working hours.
		{"5H", MaxRunSlots},
		{"1D", MaxRunSlots},
		{"1D2H30M", MaxRunSlots},
		// Lenient fallbacks.
		{"soon", DefaultRunSlots},
		{"90", DefaultRunSlots},
		{"H", DefaultRunSlots},
		{"0M", DefaultRunSlots},
		{"1H!", DefaultRunSlots},
	}
	for _, tc := range cases {
		if got := ParseDurationSpec(tc.spec); got != tc.want {
			t.Fatalf("ParseDurationSpec(%q): expected %d, got %d", tc.spec, tc.want, got)
		}
	}
}
