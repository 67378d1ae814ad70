package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hospital-management-server/internal/models"
)

// Service owns the booking, schedule and appointment-lifecycle logic.
// Handlers stay thin and translate the sentinel errors into HTTP responses.
type Service struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewService creates a new scheduling Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{DB: db, Logger: logger}
}

// RequestAppointment validates a booking request and persists a new Pending
// appointment for the requested slot.
//
// The schedule lookup, availability check, slot check and insert all run in
// one transaction. On MySQL the slot check takes a FOR UPDATE lock on the
// (doctor, date, time) index range so a concurrent identical request blocks
// until this one commits and then sees the taken slot.
func (s *Service) RequestAppointment(ctx context.Context, doctorID, patientID string, at time.Time) (*models.Appointment, error) {
	if doctorID == "" || patientID == "" || at.IsZero() {
		return nil, fmt.Errorf("%w: doctor, patient and requested time are required", ErrValidation)
	}

	appointment := models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      at.Format(dateLayout),
		Time:      at.Format(clockLayout),
		Status:    models.StatusPending,
		Diagnosed: false,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Doctor{}, doctorID); err != nil {
			return fmt.Errorf("doctor %s: %w", doctorID, err)
		}
		if err := exists(tx, &models.Patient{}, patientID); err != nil {
			return fmt.Errorf("patient %s: %w", patientID, err)
		}

		var entries []models.ScheduleEntry
		if err := tx.Where("doctor_id = ?", doctorID).Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrNoSchedule
		}
		if !Bookable(at, entries) {
			return ErrOutOfHours
		}

		var taken []models.Appointment
		if err := lockForUpdate(tx).
			Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
				doctorID, appointment.Date, appointment.Time, models.StatusRejected).
			Find(&taken).Error; err != nil {
			return err
		}
		if len(taken) > 0 {
			return ErrSlotTaken
		}

		return tx.Create(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("appointment requested",
		zap.String("appointmentId", appointment.ID),
		zap.String("doctorId", doctorID),
		zap.String("patientId", patientID),
		zap.String("date", appointment.Date),
		zap.String("time", appointment.Time))

	return &appointment, nil
}

// exists checks that a record with the given id is present.
func exists(tx *gorm.DB, model interface{}, id string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// lockForUpdate adds a FOR UPDATE clause on dialects that support it.
// SQLite, used by the test suite, has no row locks; its transactions are
// serialized anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
