package model

import "time"

// Role is a staff account role. The set is closed: values outside it are
// rejected at the model boundary, not stored as free-form strings.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// AttendanceStatus is a daily attendance mark.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// User is a staff account. Password always holds a bcrypt hash, never
// plaintext, and is excluded from JSON responses.
type User struct {
	ID        int       `json:"id"`
	StaffID   *string   `json:"staffId,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Student is an enrolled student record.
type Student struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	RollNumber     string    `json:"rollNumber"`
	RegisterNumber *string   `json:"registerNumber,omitempty"`
	AdmissionYear  *string   `json:"admissionYear,omitempty"`
	CourseType     *string   `json:"courseType,omitempty"`
	Course         *string   `json:"course,omitempty"`
	Branch         *string   `json:"branch,omitempty"`
	AcademicYear   *string   `json:"academicYear,omitempty"`
	Verification   *string   `json:"verification,omitempty"`
	Class          *string   `json:"class,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Attendance is a daily mark for one student.
//
// StudentName and RegisterNumber duplicate Student columns on purpose: they
// are a snapshot taken when the mark was recorded and are not rewritten when
// the student record later changes.
type Attendance struct {
	ID             int              `json:"id"`
	StudentName    string           `json:"studentName"`
	RegisterNumber string           `json:"registerNumber"`
	Date           string           `json:"date"` // calendar date, YYYY-MM-DD
	Status         AttendanceStatus `json:"status"`
	StudentID      int              `json:"studentId"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
