package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
	"hospital-management-server/internal/utils"
)

// ScheduleHandler handles weekly schedule management.
type ScheduleHandler struct {
	DB      *gorm.DB
	Service *scheduling.Service
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(db *gorm.DB, service *scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{DB: db, Service: service}
}

// SetScheduleRequest represents the request body for upserting a weekly
// schedule entry. DoctorID is ignored for doctor callers, who can only edit
// their own schedule.
type SetScheduleRequest struct {
	DoctorID       string `json:"doctorId"`
	DayOfWeek      string `json:"dayOfWeek" binding:"required"`
	StartTime      string `json:"startTime" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	BreakStartTime string `json:"breakStartTime" binding:"required"`
	BreakEndTime   string `json:"breakEndTime" binding:"required"`
}

// SetSchedule upserts the working window for one weekday. Doctors manage
// their own schedule; admins can manage any doctor's.
func (h *ScheduleHandler) SetSchedule(c *gin.Context) {
	var req SetScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, ok := h.resolveDoctorID(c, req.DoctorID)
	if !ok {
		return
	}

	entry, err := h.Service.SetWeeklySchedule(c.Request.Context(), doctorID, req.DayOfWeek, scheduling.Window{
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Schedule saved successfully", entry)
}

// GetDoctorSchedule lists one doctor's weekly schedule. Patients use this to
// see bookable hours before requesting an appointment.
func (h *ScheduleHandler) GetDoctorSchedule(c *gin.Context) {
	entries, err := h.Service.DoctorSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Schedule fetched successfully", entries)
}

// GetOwnSchedule lists the authenticated doctor's weekly schedule.
func (h *ScheduleHandler) GetOwnSchedule(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	doctor, err := doctorForUser(h.DB, userID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	entries, err := h.Service.DoctorSchedule(c.Request.Context(), doctor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Schedule fetched successfully", entries)
}

// GetAllSchedules lists every schedule entry with its doctor (admin only).
func (h *ScheduleHandler) GetAllSchedules(c *gin.Context) {
	var entries []models.ScheduleEntry
	if err := h.DB.Preload("Doctor").Find(&entries).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch schedules: "+err.Error())
		return
	}
	utils.Success(c, "Schedules fetched successfully", entries)
}

// DeleteSchedule removes one schedule entry. Admins can remove any entry;
// doctors only their own.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	entryID := c.Param("id")

	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RoleDoctor {
		userID, _ := middleware.GetUserIDFromContext(c)
		doctor, err := doctorForUser(h.DB, userID)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		var entry models.ScheduleEntry
		if err := h.DB.First(&entry, "id = ?", entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.NotFound(c, "Schedule entry not found")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		if entry.DoctorID != doctor.ID {
			utils.Forbidden(c, "You can only remove your own schedule entries.")
			return
		}
	}

	if err := h.Service.DeleteScheduleEntry(c.Request.Context(), entryID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Schedule entry deleted successfully", nil)
}

// resolveDoctorID decides which doctor a schedule write applies to. Doctors
// always act on their own profile; admins must name a doctor explicitly.
func (h *ScheduleHandler) resolveDoctorID(c *gin.Context, requested string) (string, bool) {
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RoleDoctor {
		userID, _ := middleware.GetUserIDFromContext(c)
		doctor, err := doctorForUser(h.DB, userID)
		if err != nil {
			respondSchedulingError(c, err)
			return "", false
		}
		return doctor.ID, true
	}

	if requested == "" {
		utils.BadRequest(c, "doctorId is required")
		return "", false
	}
	return requested, true
}
