package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recordbook/internal/model"
	"recordbook/internal/store"
)

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]model.Student, error)
	Get(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, st *model.Student) error
	Update(ctx context.Context, st *model.Student) error
	Delete(ctx context.Context, id int) error

	InsertAttendance(ctx context.Context, a *model.Attendance) error
	UpdateAttendanceStatus(ctx context.Context, id int, status model.AttendanceStatus) error
	DeleteAttendance(ctx context.Context, id int) error
	ListAttendance(ctx context.Context, studentID int, date string) ([]model.Attendance, error)
}

// Validation failures for student and attendance writes.
var (
	ErrInvalidInput  = errors.New("missing required field")
	ErrInvalidStatus = errors.New("status must be Present or Absent")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

// Service validates student and attendance writes before they reach the
// store. Relational invariants (uniqueness, the attendance→student FK and
// its cascade) stay with the store.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all students.
func (s *Service) List(ctx context.Context) ([]model.Student, error) {
	return s.store.List(ctx)
}

// Get returns one student.
func (s *Service) Get(ctx context.Context, id int) (*model.Student, error) {
	return s.store.Get(ctx, id)
}

// Create validates and persists a new student.
func (s *Service) Create(ctx context.Context, st *model.Student) error {
	if st.Name == "" || st.RollNumber == "" {
		return ErrInvalidInput
	}
	return s.store.Create(ctx, st)
}

// Update validates and rewrites a student record.
func (s *Service) Update(ctx context.Context, st *model.Student) error {
	if st.Name == "" || st.RollNumber == "" {
		return ErrInvalidInput
	}
	return s.store.Update(ctx, st)
}

// Delete removes a student; its attendance rows go with it via the cascade.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// Mark records an attendance mark for a student. The student's name and
// register number are copied onto the row as a snapshot at marking time.
func (s *Service) Mark(ctx context.Context, studentID int, date string, status model.AttendanceStatus) (*model.Attendance, error) {
	if studentID <= 0 || date == "" {
		return nil, ErrInvalidInput
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	st, err := s.store.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same failure the FK would raise on insert.
			return nil, store.ErrForeignKey
		}
		return nil, err
	}

	registerNumber := ""
	if st.RegisterNumber != nil {
		registerNumber = *st.RegisterNumber
	}
	a := &model.Attendance{
		StudentName:    st.Name,
		RegisterNumber: registerNumber,
		Date:           date,
		Status:         status,
		StudentID:      st.ID,
	}
	if err := s.store.InsertAttendance(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SetStatus changes an existing mark.
func (s *Service) SetStatus(ctx context.Context, id int, status model.AttendanceStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.store.UpdateAttendanceStatus(ctx, id, status)
}

// Unmark removes a single mark.
func (s *Service) Unmark(ctx context.Context, id int) error {
	return s.store.DeleteAttendance(ctx, id)
}

// Attendance lists marks filtered by student and/or date.
func (s *Service) Attendance(ctx context.Context, studentID int, date string) ([]model.Attendance, error) {
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
	}
	return s.store.ListAttendance(ctx, studentID, date)
}
