package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-management-server/internal/cache"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"
)

// DashboardHandler serves portal dashboard statistics.
type DashboardHandler struct {
	DB       *gorm.DB
	Cache    *cache.Cache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *gorm.DB, statsCache *cache.Cache, ttl time.Duration, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{DB: db, Cache: statsCache, CacheTTL: ttl, Logger: logger}
}

// Stats holds the row counts shown on the admin dashboard.
type Stats struct {
	Doctors      int64 `json:"doctors"`
	Patients     int64 `json:"patients"`
	Appointments int64 `json:"appointments"`
	Staff        int64 `json:"staff"`
}

const statsCacheKey = "dashboard_stats"

// GetStats returns row counts for doctors, patients, appointments and staff.
// Counts are served from the Redis cache when present; a cache failure falls
// back to direct counts rather than failing the request.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	var stats Stats
	if err := h.Cache.Get(ctx, statsCacheKey, &stats); err == nil {
		utils.Success(c, "Stats fetched successfully", stats)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		h.Logger.Warn("stats cache read failed", zap.Error(err))
	}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Doctor{}, &stats.Doctors},
		{&models.Patient{}, &stats.Patients},
		{&models.Appointment{}, &stats.Appointments},
		{&models.Staff{}, &stats.Staff},
	}
	for _, count := range counts {
		if err := h.DB.Model(count.model).Count(count.dest).Error; err != nil {
			utils.InternalServerError(c, "Failed to compute stats: "+err.Error())
			return
		}
	}

	if err := h.Cache.Set(ctx, statsCacheKey, stats, h.CacheTTL); err != nil {
		h.Logger.Warn("stats cache write failed", zap.Error(err))
	}

	utils.Success(c, "Stats fetched successfully", stats)
}
