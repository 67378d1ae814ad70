package models

// Doctor represents a doctor profile created by an admin. Deleting a doctor
// cascades to their schedule entries, appointments and medical history.
type Doctor struct {
	BaseModel
	Name           string `gorm:"size:255;not null" json:"name"`
	Specialization string `gorm:"size:100" json:"specialization"`
	PhoneNumber    string `gorm:"size:30" json:"phoneNumber"`
	UserID         string `gorm:"size:36;uniqueIndex" json:"userId"`

	// Relations
	User            User                   `gorm:"foreignKey:UserID" json:"-"`
	ScheduleEntries []ScheduleEntry        `gorm:"foreignKey:DoctorID" json:"-"`
	Appointments    []Appointment          `gorm:"foreignKey:DoctorID" json:"-"`
	MedicalHistory  []MedicalHistoryRecord `gorm:"foreignKey:DoctorID" json:"-"`
}

// Patient represents a patient profile, typically created at the reception desk.
type Patient struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	DateOfBirth string `gorm:"size:10" json:"dateOfBirth,omitempty"`
	PhoneNumber string `gorm:"size:30" json:"phoneNumber"`
	Address     string `gorm:"size:255" json:"address,omitempty"`
	UserID      string `gorm:"size:36;uniqueIndex" json:"userId"`

	// Relations
	User           User                   `gorm:"foreignKey:UserID" json:"-"`
	Appointments   []Appointment          `gorm:"foreignKey:PatientID" json:"-"`
	MedicalHistory []MedicalHistoryRecord `gorm:"foreignKey:PatientID" json:"-"`
}

// Staff represents a non-medical staff member managed by an admin.
type Staff struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Position    string `gorm:"size:100" json:"position"`
	PhoneNumber string `gorm:"size:30" json:"phoneNumber"`
	UserID      string `gorm:"size:36;uniqueIndex" json:"userId"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
