package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// respondSchedulingError maps scheduling sentinel errors onto the response
// envelope. Unknown errors are reported as internal failures.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrNoSchedule):
		utils.BadRequest(c, "The doctor has not configured their availability yet.")
	case errors.Is(err, scheduling.ErrOutOfHours):
		utils.BadRequest(c, "The selected time is not available. Please choose another time.")
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.Conflict(c, "The selected time slot is already taken. Please choose another time.")
	case errors.Is(err, scheduling.ErrOverlap):
		utils.Conflict(c, "The new window overlaps an existing schedule entry. Please update the existing schedule.")
	case errors.Is(err, scheduling.ErrInvalidTransition):
		utils.Conflict(c, err.Error())
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, "The referenced record was not found.")
	default:
		utils.InternalServerError(c, err.Error())
	}
}

// doctorForUser resolves the doctor profile linked to a user account.
func doctorForUser(db *gorm.DB, userID string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// patientForUser resolves the patient profile linked to a user account.
func patientForUser(db *gorm.DB, userID string) (*models.Patient, error) {
	var patient models.Patient
	if err := db.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}
