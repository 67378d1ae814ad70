package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// MedicalHistoryHandler handles diagnosis filing and history lookups.
type MedicalHistoryHandler struct {
	DB      *gorm.DB
	Service *scheduling.Service
}

// NewMedicalHistoryHandler creates a new MedicalHistoryHandler.
func NewMedicalHistoryHandler(db *gorm.DB, service *scheduling.Service) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{DB: db, Service: service}
}

// FileDiagnosisRequest represents the request body for filing a diagnosis
// against an appointment.
type FileDiagnosisRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
	Diagnosis     string `json:"diagnosis" binding:"required"`
	Treatment     string `json:"treatment"`
	Medications   string `json:"medications"`
	Notes         string `json:"notes"`
}

// FileDiagnosis creates a medical history record for the appointment and
// marks it diagnosed. Doctors can only diagnose their own appointments.
func (h *MedicalHistoryHandler) FileDiagnosis(c *gin.Context) {
	var req FileDiagnosisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	doctor, err := doctorForUser(h.DB, userID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		utils.NotFound(c, "Appointment not found")
		return
	}
	if appointment.DoctorID != doctor.ID {
		utils.Forbidden(c, "You can only diagnose your own appointments.")
		return
	}

	record, err := h.Service.FileDiagnosis(c.Request.Context(), req.AppointmentID, scheduling.DiagnosisInput{
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Medications: req.Medications,
		Notes:       req.Notes,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Diagnosis filed successfully", record)
}

// GetHistoryForPatient lists a patient's medical history. Patients may only
// view their own; doctors and admins may view any patient's.
func (h *MedicalHistoryHandler) GetHistoryForPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient {
		userID, _ := middleware.GetUserIDFromContext(c)
		patient, err := patientForUser(h.DB, userID)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		if patient.ID != patientID {
			utils.Forbidden(c, "You can only view your own medical history.")
			return
		}
	}

	var records []models.MedicalHistoryRecord
	err := h.DB.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("visit_date desc").
		Find(&records).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical history: "+err.Error())
		return
	}
	utils.Success(c, "Medical history fetched successfully", records)
}

// GetOwnHistory lists the authenticated patient's medical history.
func (h *MedicalHistoryHandler) GetOwnHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	patient, err := patientForUser(h.DB, userID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	var records []models.MedicalHistoryRecord
	err = h.DB.Preload("Doctor").
		Where("patient_id = ?", patient.ID).
		Order("visit_date desc").
		Find(&records).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical history: "+err.Error())
		return
	}
	utils.Success(c, "Medical history fetched successfully", records)
}
