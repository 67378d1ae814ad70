package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// AppointmentHandler handles appointment booking and lifecycle requests.
type AppointmentHandler struct {
	DB      *gorm.DB
	Service *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, service *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Service: service}
}

// CreateAppointmentRequest represents the request body for requesting an
// appointment slot.
type CreateAppointmentRequest struct {
	DoctorID    string    `json:"doctorId" binding:"required,uuid"`
	RequestedAt time.Time `json:"requestedAt" binding:"required"`
}

// CreateAppointment books a Pending appointment for the authenticated
// patient if the requested slot is inside the doctor's bookable hours and
// not already taken.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

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

	if req.RequestedAt.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	appointment, err := h.Service.RequestAppointment(c.Request.Context(), req.DoctorID, patient.ID, req.RequestedAt)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment requested successfully", appointment)
}

// GetAppointmentsForUser lists appointments for the logged-in user. Patients
// see their own, doctors see theirs, admins see everything. An optional
// ?status= query narrows the result.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Patient").Preload("Doctor").Order("date asc, time asc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	var err error

	switch role {
	case models.RolePatient:
		var patient *models.Patient
		if patient, err = patientForUser(h.DB, userID); err == nil {
			err = query.Where("patient_id = ?", patient.ID).Find(&appointments).Error
		}
	case models.RoleDoctor:
		var doctor *models.Doctor
		if doctor, err = doctorForUser(h.DB, userID); err == nil {
			err = query.Where("doctor_id = ?", doctor.ID).Find(&appointments).Error
		}
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments this way.")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetUpcomingScheduled lists Scheduled appointments from today onwards with
// doctor and patient names (receptionist or admin).
func (h *AppointmentHandler) GetUpcomingScheduled(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var appointments []models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").
		Where("status = ? AND date >= ?", models.StatusScheduled, today).
		Order("date asc, time asc").
		Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointmentStatusRequest represents the request body for a doctor's
// accept or reject decision.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=Scheduled Rejected"`
}

// UpdateAppointmentStatus applies a doctor's accept (Scheduled) or reject
// (Rejected) decision to a Pending appointment.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointmentID := c.Param("id")
	if !h.authorizeDoctorAction(c, appointmentID) {
		return
	}

	var appointment *models.Appointment
	var err error
	if req.Status == models.StatusScheduled {
		appointment, err = h.Service.Accept(c.Request.Context(), appointmentID)
	} else {
		appointment, err = h.Service.Reject(c.Request.Context(), appointmentID)
	}
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// CancelAppointment deletes the patient's own appointment. Admins can remove
// any appointment.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	patientID := ""
	if role == models.RolePatient {
		patient, err := patientForUser(h.DB, userID)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		patientID = patient.ID
	}

	if err := h.Service.Cancel(c.Request.Context(), c.Param("id"), patientID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", nil)
}

// authorizeDoctorAction ensures the appointment belongs to the calling
// doctor. Admins pass unconditionally.
func (h *AppointmentHandler) authorizeDoctorAction(c *gin.Context, appointmentID string) bool {
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RoleAdmin {
		return true
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	doctor, err := doctorForUser(h.DB, userID)
	if err != nil {
		respondSchedulingError(c, err)
		return false
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		utils.NotFound(c, "Appointment not found")
		return false
	}
	if appointment.DoctorID != doctor.ID {
		utils.Forbidden(c, "You are not authorized to update this appointment.")
		return false
	}
	return true
}
