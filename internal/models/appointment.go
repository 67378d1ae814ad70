package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusRejected  AppointmentStatus = "Rejected"
)

// Appointment represents a requested visit slot for a (doctor, date, time)
// tuple. It is created in Pending state by a patient, moved to Scheduled or
// Rejected by the doctor, and removed outright on patient cancellation.
// Date is stored as YYYY-MM-DD and Time as HH:MM, both local wall-clock.
type Appointment struct {
	BaseModel
	PatientID string            `gorm:"size:36;index" json:"patientId"`
	DoctorID  string            `gorm:"size:36;index:idx_doctor_slot" json:"doctorId"`
	Date      string            `gorm:"size:10;not null;index:idx_doctor_slot" json:"date"`
	Time      string            `gorm:"size:5;not null;index:idx_doctor_slot" json:"time"`
	Status    AppointmentStatus `gorm:"size:20;default:'Pending'" json:"status"`
	Diagnosed bool              `gorm:"default:false" json:"diagnosed"`

	// Relations, preloaded by the listing endpoints so the portals can show
	// patient and doctor names.
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor"`
}

// MedicalHistoryRecord is the immutable outcome of a diagnosed visit. It is
// created exactly once per diagnosed appointment; there is no edit or delete
// path outside the admin cascade on doctor removal.
type MedicalHistoryRecord struct {
	BaseModel
	PatientID   string `gorm:"size:36;index" json:"patientId"`
	DoctorID    string `gorm:"size:36;index" json:"doctorId"`
	VisitDate   string `gorm:"size:10;not null" json:"visitDate"`
	Diagnosis   string `gorm:"type:text" json:"diagnosis"`
	Treatment   string `gorm:"type:text" json:"treatment"`
	Medications string `gorm:"type:text" json:"medications"`
	Notes       string `gorm:"type:text" json:"notes"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor"`
}
