package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                      "0",
		Origin:                    "http://localhost:5173",
		Environment:               "test",
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 1,
		StatsCacheTTLSeconds:      30,
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	cfg := testConfig()
	router := gin.New()
	SetupRoutes(router, db, cfg, nil, zap.NewNop())
	return router, db, cfg
}

// seedAccount creates a login plus its role profile and returns an access token.
func seedAccount(t *testing.T, db *gorm.DB, cfg *config.Config, email string, role models.Role) (string, string) {
	t.Helper()

	user := models.User{Email: email, FirstName: "Test", LastName: "User", Role: role}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	profileID := ""
	switch role {
	case models.RoleDoctor:
		doctor := models.Doctor{Name: "Dr. Test User", Specialization: "General", UserID: user.ID}
		require.NoError(t, db.Create(&doctor).Error)
		profileID = doctor.ID
	case models.RolePatient:
		patient := models.Patient{Name: "Test User", UserID: user.ID}
		require.NoError(t, db.Create(&patient).Error)
		profileID = patient.ID
	case models.RoleReceptionist, models.RoleStaff:
		staff := models.Staff{Name: "Test User", Position: "Front desk", UserID: user.ID}
		require.NoError(t, db.Create(&staff).Error)
		profileID = staff.ID
	}

	accessToken, _, err := utils.GenerateTokens(&user, cfg)
	require.NoError(t, err)
	return accessToken, profileID
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Best-effort decode; not every endpoint uses the response envelope.
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// nextWeekday returns the next occurrence of the weekday at the given time.
func nextWeekday(day time.Weekday, hour, minute int) time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.Local)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	router, db, _ := newTestRouter(t)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	// Registration provisions a patient profile alongside the login.
	var patientCount int64
	require.NoError(t, db.Model(&models.Patient{}).Count(&patientCount).Error)
	assert.EqualValues(t, 1, patientCount)

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password is rejected without leaking which field was wrong.
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Error)

	// Duplicate registration is refused.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"password":  "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doRequest(t, router, http.MethodGet, "/api/v1/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/appointments", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRestrictions(t *testing.T) {
	router, db, cfg := newTestRouter(t)
	patientToken, _ := seedAccount(t, db, cfg, "pat@example.com", models.RolePatient)

	// Patients cannot list users or create doctors.
	w, _ := doRequest(t, router, http.MethodGet, "/api/v1/users", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/doctors", patientToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/dashboard/stats", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingFlow(t *testing.T) {
	router, db, cfg := newTestRouter(t)
	doctorToken, doctorID := seedAccount(t, db, cfg, "doc@example.com", models.RoleDoctor)
	patientToken, _ := seedAccount(t, db, cfg, "pat@example.com", models.RolePatient)
	receptionistToken, _ := seedAccount(t, db, cfg, "desk@example.com", models.RoleReceptionist)

	bookAt := nextWeekday(time.Monday, 10, 0)

	// Booking before the doctor publishes a schedule fails.
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId":    doctorID,
		"requestedAt": bookAt.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "availability")

	// Doctor publishes Monday hours.
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/schedules", doctorToken, gin.H{
		"dayOfWeek":      "Monday",
		"startTime":      "09:00",
		"endTime":        "17:00",
		"breakStartTime": "12:00",
		"breakEndTime":   "13:00",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	// The published schedule is visible to the patient.
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/doctors/"+doctorID+"/schedule", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.ScheduleEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)

	// Patient books a slot inside the window.
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId":    doctorID,
		"requestedAt": bookAt.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	var appointment models.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &appointment))
	assert.Equal(t, models.StatusPending, appointment.Status)

	// The same slot cannot be booked twice.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId":    doctorID,
		"requestedAt": bookAt.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// A time inside the break is refused.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId":    doctorID,
		"requestedAt": nextWeekday(time.Monday, 12, 30).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Patients cannot decide appointment status.
	w, _ = doRequest(t, router, http.MethodPatch, "/api/v1/appointments/"+appointment.ID+"/status", patientToken, gin.H{
		"status": "Scheduled",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Doctor accepts.
	w, env = doRequest(t, router, http.MethodPatch, "/api/v1/appointments/"+appointment.ID+"/status", doctorToken, gin.H{
		"status": "Scheduled",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	// The receptionist desk sees the upcoming scheduled visit.
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/appointments/scheduled", receptionistToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming []models.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &upcoming))
	require.Len(t, upcoming, 1)
	assert.Equal(t, models.StatusScheduled, upcoming[0].Status)

	// Doctor files the diagnosis.
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/medical-history", doctorToken, gin.H{
		"appointmentId": appointment.ID,
		"diagnosis":     "Seasonal flu",
		"treatment":     "Rest and fluids",
		"medications":   "Paracetamol",
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	// Filing twice against the same visit is refused.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/medical-history", doctorToken, gin.H{
		"appointmentId": appointment.ID,
		"diagnosis":     "Second opinion",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The patient sees the filed record.
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/medical-history/mine", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []models.MedicalHistoryRecord
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Seasonal flu", records[0].Diagnosis)

	// Diagnosed appointments can no longer be cancelled by the patient.
	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/appointments/"+appointment.ID, patientToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelPendingAppointment(t *testing.T) {
	router, db, cfg := newTestRouter(t)
	doctorToken, doctorID := seedAccount(t, db, cfg, "doc@example.com", models.RoleDoctor)
	patientToken, _ := seedAccount(t, db, cfg, "pat@example.com", models.RolePatient)
	otherPatientToken, _ := seedAccount(t, db, cfg, "other@example.com", models.RolePatient)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/schedules", doctorToken, gin.H{
		"dayOfWeek":      "Monday",
		"startTime":      "09:00",
		"endTime":        "17:00",
		"breakStartTime": "12:00",
		"breakEndTime":   "13:00",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/appointments", patientToken, gin.H{
		"doctorId":    doctorID,
		"requestedAt": nextWeekday(time.Monday, 10, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	var appointment models.Appointment
	require.NoError(t, json.Unmarshal(env.Data, &appointment))

	// Another patient cannot cancel it.
	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/appointments/"+appointment.ID, otherPatientToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner can.
	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/appointments/"+appointment.ID, patientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A second cancel finds nothing.
	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/appointments/"+appointment.ID, patientToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardStats(t *testing.T) {
	router, db, cfg := newTestRouter(t)
	adminToken, _ := seedAccount(t, db, cfg, "admin@example.com", models.RoleAdmin)
	seedAccount(t, db, cfg, "doc@example.com", models.RoleDoctor)
	seedAccount(t, db, cfg, "pat@example.com", models.RolePatient)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var stats struct {
		Doctors  int64 `json:"doctors"`
		Patients int64 `json:"patients"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.Doctors)
	assert.EqualValues(t, 1, stats.Patients)
}

func TestScheduleOverlapViaAPI(t *testing.T) {
	router, db, cfg := newTestRouter(t)
	doctorToken, _ := seedAccount(t, db, cfg, "doc@example.com", models.RoleDoctor)

	payload := gin.H{
		"dayOfWeek":      "Monday",
		"startTime":      "09:00",
		"endTime":        "17:00",
		"breakStartTime": "12:00",
		"breakEndTime":   "13:00",
	}
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/schedules", doctorToken, payload)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	// Resubmitting the identical window succeeds without duplicating the entry.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/schedules", doctorToken, payload)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.ScheduleEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A different overlapping window is rejected.
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/schedules", doctorToken, gin.H{
		"dayOfWeek":      "Monday",
		"startTime":      "10:00",
		"endTime":        "14:00",
		"breakStartTime": "11:00",
		"breakEndTime":   "11:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
