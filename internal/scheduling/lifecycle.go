package scheduling

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// Accept moves a Pending appointment to Scheduled.
func (s *Service) Accept(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, models.StatusScheduled)
}

// Reject moves a Pending appointment to Rejected. Rejected is terminal.
func (s *Service) Reject(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, models.StatusRejected)
}

func (s *Service) transition(ctx context.Context, appointmentID string, to models.AppointmentStatus) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&appointment, "id = ?", appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if appointment.Status != models.StatusPending {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, to)
		}
		appointment.Status = to
		return tx.Save(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("appointment status changed",
		zap.String("appointmentId", appointment.ID),
		zap.String("status", string(to)))

	return &appointment, nil
}

// Cancel deletes a patient's own appointment outright. There is no Cancelled
// state; the record is removed. Diagnosed appointments cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, appointmentID, patientID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Treat another patient's appointment as absent rather than leaking
		// its existence.
		if patientID != "" && appointment.PatientID != patientID {
			return ErrNotFound
		}
		if appointment.Diagnosed {
			return fmt.Errorf("%w: diagnosed appointments cannot be cancelled", ErrInvalidTransition)
		}
		return tx.Delete(&appointment).Error
	})
	if err != nil {
		return err
	}

	s.Logger.Info("appointment cancelled", zap.String("appointmentId", appointmentID))
	return nil
}

// DiagnosisInput carries the free-text fields of a diagnosis submission.
type DiagnosisInput struct {
	Diagnosis   string
	Treatment   string
	Medications string
	Notes       string
}

// FileDiagnosis creates one medical history record stamped with the
// appointment's date and flips the appointment's diagnosed flag, in one
// transaction. The appointment's status is intentionally not required to be
// Scheduled; the doctor portal only offers diagnosis on scheduled visits, and
// the exactly-once guarantee comes from the diagnosed flag check.
func (s *Service) FileDiagnosis(ctx context.Context, appointmentID string, input DiagnosisInput) (*models.MedicalHistoryRecord, error) {
	if input.Diagnosis == "" {
		return nil, fmt.Errorf("%w: diagnosis text is required", ErrValidation)
	}

	var record models.MedicalHistoryRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := lockForUpdate(tx).First(&appointment, "id = ?", appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if appointment.Diagnosed {
			return fmt.Errorf("%w: appointment already diagnosed", ErrInvalidTransition)
		}

		record = models.MedicalHistoryRecord{
			PatientID:   appointment.PatientID,
			DoctorID:    appointment.DoctorID,
			VisitDate:   appointment.Date,
			Diagnosis:   input.Diagnosis,
			Treatment:   input.Treatment,
			Medications: input.Medications,
			Notes:       input.Notes,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		appointment.Diagnosed = true
		return tx.Save(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("diagnosis filed",
		zap.String("appointmentId", appointmentID),
		zap.String("historyId", record.ID))

	return &record, nil
}
