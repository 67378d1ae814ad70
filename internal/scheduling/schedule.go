package scheduling

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// Window is a weekly working window submitted for one day. All four time
// fields are mandatory when creating or editing an entry.
type Window struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	BreakStartTime string `json:"breakStartTime"`
	BreakEndTime   string `json:"breakEndTime"`
}

// normalize validates the window and rewrites its fields into HH:MM form.
func (w *Window) normalize() error {
	if w.StartTime == "" || w.EndTime == "" || w.BreakStartTime == "" || w.BreakEndTime == "" {
		return fmt.Errorf("%w: start, end, break start and break end are all required", ErrValidation)
	}

	var err error
	if w.StartTime, err = normalizeClock(w.StartTime); err != nil {
		return err
	}
	if w.EndTime, err = normalizeClock(w.EndTime); err != nil {
		return err
	}
	if w.BreakStartTime, err = normalizeClock(w.BreakStartTime); err != nil {
		return err
	}
	if w.BreakEndTime, err = normalizeClock(w.BreakEndTime); err != nil {
		return err
	}

	if w.StartTime >= w.EndTime {
		return fmt.Errorf("%w: start time must precede end time", ErrValidation)
	}
	if w.BreakStartTime >= w.BreakEndTime {
		return fmt.Errorf("%w: break start must precede break end", ErrValidation)
	}
	if w.BreakStartTime < w.StartTime || w.BreakEndTime > w.EndTime {
		return fmt.Errorf("%w: break window must lie within the working window", ErrValidation)
	}
	return nil
}

// equalsEntry reports whether the window matches a stored entry exactly.
func (w *Window) equalsEntry(entry *models.ScheduleEntry) bool {
	return entry.StartTime == w.StartTime &&
		entry.EndTime == w.EndTime &&
		entry.HasBreak() &&
		*entry.BreakStartTime == w.BreakStartTime &&
		*entry.BreakEndTime == w.BreakEndTime
}

// overlapsEntry reports whether the window's working interval intersects the
// entry's working interval, or its break interval intersects the entry's
// break interval.
func (w *Window) overlapsEntry(entry *models.ScheduleEntry) bool {
	if intervalsOverlap(w.StartTime, w.EndTime, entry.StartTime, entry.EndTime) {
		return true
	}
	if entry.HasBreak() &&
		intervalsOverlap(w.BreakStartTime, w.BreakEndTime, *entry.BreakStartTime, *entry.BreakEndTime) {
		return true
	}
	return false
}

// SetWeeklySchedule upserts the doctor's working window for one weekday,
// keyed on (doctor, day). Resubmitting the identical window is a no-op
// update; a different window that overlaps the stored one is rejected so the
// stored entry has to be edited deliberately rather than silently replaced.
// A different non-overlapping window replaces the stored one in place, which
// is how "at most one entry per day" holds.
func (s *Service) SetWeeklySchedule(ctx context.Context, doctorID, dayOfWeek string, window Window) (*models.ScheduleEntry, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor is required", ErrValidation)
	}
	if !weekdays[dayOfWeek] {
		return nil, fmt.Errorf("%w: invalid day of week %q", ErrValidation, dayOfWeek)
	}
	if err := window.normalize(); err != nil {
		return nil, err
	}

	var entry models.ScheduleEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Doctor{}, doctorID); err != nil {
			return fmt.Errorf("doctor %s: %w", doctorID, err)
		}

		var existing models.ScheduleEntry
		err := lockForUpdate(tx).
			Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.ScheduleEntry{
				DoctorID:       doctorID,
				DayOfWeek:      dayOfWeek,
				StartTime:      window.StartTime,
				EndTime:        window.EndTime,
				BreakStartTime: &window.BreakStartTime,
				BreakEndTime:   &window.BreakEndTime,
			}
			return tx.Create(&entry).Error
		case err != nil:
			return err
		}

		if !window.equalsEntry(&existing) && window.overlapsEntry(&existing) {
			return ErrOverlap
		}

		existing.StartTime = window.StartTime
		existing.EndTime = window.EndTime
		existing.BreakStartTime = &window.BreakStartTime
		existing.BreakEndTime = &window.BreakEndTime
		entry = existing
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("schedule entry upserted",
		zap.String("doctorId", doctorID),
		zap.String("dayOfWeek", dayOfWeek),
		zap.String("scheduleId", entry.ID))

	return &entry, nil
}

// DoctorSchedule returns the doctor's schedule entries ordered by identifier.
func (s *Service) DoctorSchedule(ctx context.Context, doctorID string) ([]models.ScheduleEntry, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("%w: doctor is required", ErrValidation)
	}
	var entries []models.ScheduleEntry
	if err := s.DB.WithContext(ctx).Where("doctor_id = ?", doctorID).Find(&entries).Error; err != nil {
		return nil, err
	}
	return sortedByID(entries), nil
}

// DeleteScheduleEntry removes one schedule entry outright.
func (s *Service) DeleteScheduleEntry(ctx context.Context, entryID string) error {
	result := s.DB.WithContext(ctx).Delete(&models.ScheduleEntry{}, "id = ?", entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
