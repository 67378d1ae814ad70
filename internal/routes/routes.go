package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-management-server/internal/cache"
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/handlers"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, statsCache *cache.Cache, logger *zap.Logger) {
	service := scheduling.NewService(db, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db, logger)
	patientHandler := handlers.NewPatientHandler(db, logger)
	staffHandler := handlers.NewStaffHandler(db, logger)
	scheduleHandler := handlers.NewScheduleHandler(db, service)
	appointmentHandler := handlers.NewAppointmentHandler(db, service)
	historyHandler := handlers.NewMedicalHistoryHandler(db, service)
	dashboardHandler := handlers.NewDashboardHandler(db, statsCache,
		time.Duration(cfg.StatsCacheTTLSeconds)*time.Second, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.POST("/change-password", authHandler.ChangePassword)
		}

		// Account listing (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
		}

		// Doctor management
		doctorRoutes := private.Group("/doctors")
		{
			// Any authenticated user can browse doctors and their schedules
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.GET("/:id/schedule", scheduleHandler.GetDoctorSchedule)

			adminDoctorRoutes := doctorRoutes.Group("")
			adminDoctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDoctorRoutes.POST("", doctorHandler.CreateDoctor)
				adminDoctorRoutes.PUT("/:id", doctorHandler.UpdateDoctor)
				adminDoctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
			}
		}

		// Patient management
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor), patientHandler.GetPatients)
			patientRoutes.GET("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor), patientHandler.GetPatientByID)
			patientRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), patientHandler.CreatePatient)
			patientRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), patientHandler.DeletePatient)
		}

		// Staff management (admin only)
		staffRoutes := private.Group("/staff")
		staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			staffRoutes.POST("", staffHandler.CreateStaff)
			staffRoutes.GET("", staffHandler.GetStaff)
			staffRoutes.DELETE("/:id", staffHandler.DeleteStaff)
		}

		// Weekly schedule management
		scheduleRoutes := private.Group("/schedules")
		{
			scheduleRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), scheduleHandler.SetSchedule)
			scheduleRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RoleDoctor), scheduleHandler.GetOwnSchedule)
			scheduleRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin), scheduleHandler.GetAllSchedules)
			scheduleRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), scheduleHandler.DeleteSchedule)
		}

		// Appointment booking and lifecycle
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/scheduled", middleware.RoleAuthMiddleware(models.RoleReceptionist, models.RoleAdmin), appointmentHandler.GetUpcomingScheduled)
			appointmentRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleAdmin), appointmentHandler.CancelAppointment)
		}

		// Medical history
		historyRoutes := private.Group("/medical-history")
		{
			historyRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), historyHandler.FileDiagnosis)
			historyRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RolePatient), historyHandler.GetOwnHistory)
			historyRoutes.GET("/patient/:patientId", historyHandler.GetHistoryForPatient)
		}

		// Dashboard statistics
		private.GET("/dashboard/stats", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleReceptionist), dashboardHandler.GetStats)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
