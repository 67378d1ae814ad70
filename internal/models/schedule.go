package models

// ScheduleEntry represents one weekly recurring working window for a doctor.
// Time columns hold local wall-clock values in 24-hour HH:MM form; comparisons
// on them are lexical and no timezone conversion is ever applied.
//
// The composite unique index enforces at most one entry per (doctor, weekday),
// so schedule writes are a real upsert rather than a check-then-insert.
type ScheduleEntry struct {
	BaseModel
	DoctorID       string  `gorm:"size:36;index;uniqueIndex:idx_doctor_day" json:"doctorId"`
	DayOfWeek      string  `gorm:"size:10;not null;uniqueIndex:idx_doctor_day" json:"dayOfWeek"`
	StartTime      string  `gorm:"size:5;not null" json:"startTime"`
	EndTime        string  `gorm:"size:5;not null" json:"endTime"`
	BreakStartTime *string `gorm:"size:5" json:"breakStartTime,omitempty"`
	BreakEndTime   *string `gorm:"size:5" json:"breakEndTime,omitempty"`

	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor"`
}

// HasBreak reports whether the entry carries an enforceable break window.
// A single supplied bound is treated as no break rather than an error.
func (s *ScheduleEntry) HasBreak() bool {
	return s.BreakStartTime != nil && *s.BreakStartTime != "" &&
		s.BreakEndTime != nil && *s.BreakEndTime != ""
}
