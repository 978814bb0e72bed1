package models

import "sort"

// WeekDays is the canonical day ordering used whenever map-shaped document
// data has to be walked deterministically.
var WeekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekDayIndex = func() map[string]int {
	idx := make(map[string]int, len(WeekDays))
	for i, d := range WeekDays {
		idx[d] = i
	}
	return idx
}()

// DayIndex returns the position of a day in the canonical week, or a value
// past the week for unknown day names so they sort after real days.
func DayIndex(day string) int {
	if i, ok := weekDayIndex[day]; ok {
		return i
	}
	return len(WeekDays)
}

// SortDays orders day names canonically, unknown names last in lexicographic
// order.
func SortDays(days []string) {
	sort.Slice(days, func(i, j int) bool {
		di, dj := DayIndex(days[i]), DayIndex(days[j])
		if di != dj {
			return di < dj
		}
		return days[i] < days[j]
	})
}

// SortedDayKeys returns map keys in canonical day order. Used for deterministic
// iteration over day-keyed document maps.
func SortedDayKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortDays(keys)
	return keys
}
