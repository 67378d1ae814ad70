package scheduling

import (
	"fmt"
	"sort"
	"time"

	"hospital-management-server/internal/models"
)

// Wall-clock layouts used across schedules and appointments. All time-of-day
// values are compared lexically in these normalized forms.
const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

var weekdays = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

// Bookable reports whether the candidate instant falls within the doctor's
// bookable hours given their full set of weekly schedule entries.
//
// The weekday of the candidate is matched against entry day names, and its
// HH:MM time-of-day is compared against the stored wall-clock windows. A time
// inside both the working window and a break window is not bookable. Seconds
// are ignored and no timezone conversion is applied.
func Bookable(at time.Time, entries []models.ScheduleEntry) bool {
	entry := entryForDay(at.Weekday().String(), entries)
	if entry == nil {
		return false
	}

	t := at.Format(clockLayout)
	if t < entry.StartTime || t > entry.EndTime {
		return false
	}
	if entry.HasBreak() && t >= *entry.BreakStartTime && t <= *entry.BreakEndTime {
		return false
	}
	return true
}

// entryForDay returns the schedule entry matching the given day name.
// Duplicate entries for one day should not exist; if they do, the entry with
// the lowest identifier wins so the result stays deterministic.
func entryForDay(day string, entries []models.ScheduleEntry) *models.ScheduleEntry {
	var match *models.ScheduleEntry
	for i := range entries {
		if entries[i].DayOfWeek != day {
			continue
		}
		if match == nil || entries[i].ID < match.ID {
			match = &entries[i]
		}
	}
	return match
}

// normalizeClock parses a time-of-day string and returns it in HH:MM form.
// Accepts HH:MM and HH:MM:SS input; seconds are dropped.
func normalizeClock(value string) (string, error) {
	for _, layout := range []string{clockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("%w: invalid time of day %q", ErrValidation, value)
}

// intervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd)
// intersect, comparing normalized HH:MM values lexically.
func intervalsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// sortedByID returns the entries ordered by identifier, matching the
// deterministic tie-break used by entryForDay.
func sortedByID(entries []models.ScheduleEntry) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
