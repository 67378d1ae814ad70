package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hospital-management-server/internal/models"
)

func strPtr(s string) *string { return &s }

func mondayEntry(breakStart, breakEnd string) models.ScheduleEntry {
	entry := models.ScheduleEntry{
		DoctorID:  "doc-1",
		DayOfWeek: "Monday",
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	if breakStart != "" {
		entry.BreakStartTime = strPtr(breakStart)
		entry.BreakEndTime = strPtr(breakEnd)
	}
	return entry
}

// mondayAt returns a Monday instant at the given wall-clock time.
func mondayAt(hour, minute int) time.Time {
	// 2025-06-02 is a Monday.
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.Local)
}

func TestBookableWithinWorkingWindow(t *testing.T) {
	entries := []models.ScheduleEntry{mondayEntry("", "")}

	assert.True(t, Bookable(mondayAt(9, 0), entries), "start boundary is bookable")
	assert.True(t, Bookable(mondayAt(12, 30), entries))
	assert.True(t, Bookable(mondayAt(17, 0), entries), "end boundary is bookable")
	assert.False(t, Bookable(mondayAt(8, 59), entries))
	assert.False(t, Bookable(mondayAt(17, 1), entries))
}

func TestBookableBreakTakesPrecedence(t *testing.T) {
	entries := []models.ScheduleEntry{mondayEntry("12:00", "13:00")}

	assert.True(t, Bookable(mondayAt(11, 30), entries))
	assert.False(t, Bookable(mondayAt(12, 0), entries), "break start boundary rejected")
	assert.False(t, Bookable(mondayAt(12, 30), entries))
	assert.False(t, Bookable(mondayAt(13, 0), entries), "break end boundary rejected")
	assert.True(t, Bookable(mondayAt(13, 1), entries))
}

func TestBookableNoEntryForDay(t *testing.T) {
	entries := []models.ScheduleEntry{mondayEntry("12:00", "13:00")}

	// 2025-06-03 is a Tuesday.
	tuesday := time.Date(2025, 6, 3, 11, 30, 0, 0, time.Local)
	assert.False(t, Bookable(tuesday, entries))
}

func TestBookableEmptySchedule(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.False(t, Bookable(mondayAt(hour, 0), nil))
	}
}

func TestBookablePartialBreakIgnored(t *testing.T) {
	// Only one break bound supplied: treated as no break rather than an error.
	entry := mondayEntry("", "")
	entry.BreakStartTime = strPtr("12:00")
	entries := []models.ScheduleEntry{entry}

	assert.True(t, Bookable(mondayAt(12, 30), entries))
}

func TestBookableDuplicateDayEntriesDeterministic(t *testing.T) {
	first := mondayEntry("", "")
	first.ID = "aaa"
	first.EndTime = "12:00"
	second := mondayEntry("", "")
	second.ID = "bbb"
	second.StartTime = "13:00"

	// The lowest-id entry wins regardless of slice order.
	entries := []models.ScheduleEntry{second, first}
	assert.True(t, Bookable(mondayAt(10, 0), entries))
	assert.False(t, Bookable(mondayAt(14, 0), entries))
}

func TestNormalizeClock(t *testing.T) {
	got, err := normalizeClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, "09:30", got)

	got, err = normalizeClock("09:30:45")
	assert.NoError(t, err)
	assert.Equal(t, "09:30", got, "seconds are dropped")

	_, err = normalizeClock("25:00")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalizeClock("morning")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIntervalsOverlap(t *testing.T) {
	assert.True(t, intervalsOverlap("09:00", "17:00", "10:00", "14:00"))
	assert.True(t, intervalsOverlap("10:00", "14:00", "09:00", "17:00"))
	assert.False(t, intervalsOverlap("09:00", "12:00", "12:00", "17:00"), "touching intervals do not overlap")
	assert.False(t, intervalsOverlap("09:00", "10:00", "11:00", "12:00"))
}
