package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"
)

// StaffHandler handles staff member management (admin only).
type StaffHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(db *gorm.DB, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{DB: db, Logger: logger}
}

// CreateStaffRequest represents the request body for adding a staff member.
type CreateStaffRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Position    string `json:"position" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	// Receptionists get the receptionist role so they can use the front-desk
	// endpoints; everyone else gets the plain staff role.
	Receptionist bool `json:"receptionist"`
}

// CreateStaff creates a staff login account and its profile.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	role := models.RoleStaff
	if req.Receptionist {
		role = models.RoleReceptionist
	}

	user := models.User{
		Email:       req.Email,
		FirstName:   req.Name,
		Role:        role,
		PhoneNumber: req.PhoneNumber,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	var staff models.Staff
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		staff = models.Staff{
			Name:        req.Name,
			Position:    req.Position,
			PhoneNumber: req.PhoneNumber,
			UserID:      user.ID,
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create staff member: "+err.Error())
		return
	}

	h.Logger.Info("staff member created", zap.String("staffId", staff.ID))
	utils.Created(c, "Staff member created successfully", staff)
}

// GetStaff lists all staff members.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	var staff []models.Staff
	if err := h.DB.Order("name asc").Find(&staff).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch staff: "+err.Error())
		return
	}
	utils.Success(c, "Staff fetched successfully", staff)
}

// DeleteStaff removes a staff member and their login account.
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	var staff models.Staff
	if err := h.DB.First(&staff, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Staff member not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&staff).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", staff.UserID).Delete(&models.User{}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete staff member: "+err.Error())
		return
	}

	utils.Success(c, "Staff member deleted successfully", nil)
}
