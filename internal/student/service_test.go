package student

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordbook/internal/model"
	"recordbook/internal/store"
)

// fakeStore keeps students and marks in memory and honors the FK the schema
// would enforce.
type fakeStore struct {
	students map[int]model.Student
	marks    map[int]model.Attendance
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{students: map[int]model.Student{}, marks: map[int]model.Attendance{}, nextID: 1}
}

func (f *fakeStore) List(context.Context) ([]model.Student, error) {
	var out []model.Student
	for _, st := range f.students {
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int) (*model.Student, error) {
	st, ok := f.students[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &st, nil
}

func (f *fakeStore) Create(_ context.Context, st *model.Student) error {
	for _, existing := range f.students {
		if existing.RollNumber == st.RollNumber {
			return store.ErrDuplicate
		}
	}
	st.ID = f.nextID
	f.nextID++
	f.students[st.ID] = *st
	return nil
}

func (f *fakeStore) Update(_ context.Context, st *model.Student) error {
	if _, ok := f.students[st.ID]; !ok {
		return store.ErrNotFound
	}
	f.students[st.ID] = *st
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int) error {
	if _, ok := f.students[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.students, id)
	for mid, m := range f.marks {
		if m.StudentID == id {
			delete(f.marks, mid)
		}
	}
	return nil
}

func (f *fakeStore) InsertAttendance(_ context.Context, a *model.Attendance) error {
	if _, ok := f.students[a.StudentID]; !ok {
		return store.ErrForeignKey
	}
	a.ID = f.nextID
	f.nextID++
	f.marks[a.ID] = *a
	return nil
}

func (f *fakeStore) UpdateAttendanceStatus(_ context.Context, id int, status model.AttendanceStatus) error {
	m, ok := f.marks[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Status = status
	f.marks[id] = m
	return nil
}

func (f *fakeStore) DeleteAttendance(_ context.Context, id int) error {
	if _, ok := f.marks[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.marks, id)
	return nil
}

func (f *fakeStore) ListAttendance(_ context.Context, studentID int, date string) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, m := range f.marks {
		if studentID > 0 && m.StudentID != studentID {
			continue
		}
		if date != "" && m.Date != date {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func addStudent(t *testing.T, svc *Service, name, roll string, registerNumber *string) model.Student {
	t.Helper()
	st := model.Student{Name: name, RollNumber: roll, RegisterNumber: registerNumber}
	require.NoError(t, svc.Create(context.Background(), &st))
	return st
}

func TestMarkSnapshotsStudentFields(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	reg := "REG-2024-001"
	st := addStudent(t, svc, "Asha", "R-01", &reg)

	a, err := svc.Mark(context.Background(), st.ID, "2026-08-29", model.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, "Asha", a.StudentName)
	assert.Equal(t, "REG-2024-001", a.RegisterNumber)
	assert.Equal(t, st.ID, a.StudentID)

	// Renaming the student later does not rewrite the snapshot.
	st.Name = "Asha Devi"
	require.NoError(t, svc.Update(context.Background(), &st))
	marks, err := svc.Attendance(context.Background(), st.ID, "")
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "Asha", marks[0].StudentName)
}

func TestMarkValidation(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	st := addStudent(t, svc, "Asha", "R-01", nil)

	_, err := svc.Mark(context.Background(), st.ID, "2026-08-29", "Late")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Mark(context.Background(), st.ID, "29-08-2026", model.StatusAbsent)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Mark(context.Background(), 0, "2026-08-29", model.StatusAbsent)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, fs.marks, "no row created on validation failure")
}

func TestMarkUnknownStudentIsConstraintError(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Mark(context.Background(), 999, "2026-08-29", model.StatusPresent)
	assert.ErrorIs(t, err, store.ErrForeignKey)
}

func TestDeleteStudentCascades(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	st := addStudent(t, svc, "Asha", "R-01", nil)

	_, err := svc.Mark(context.Background(), st.ID, "2026-08-28", model.StatusPresent)
	require.NoError(t, err)
	_, err = svc.Mark(context.Background(), st.ID, "2026-08-29", model.StatusAbsent)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), st.ID))

	marks, err := svc.Attendance(context.Background(), st.ID, "")
	require.NoError(t, err)
	assert.Empty(t, marks, "no orphan attendance survives the delete")
}

func TestSetStatusValidation(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	st := addStudent(t, svc, "Asha", "R-01", nil)
	a, err := svc.Mark(context.Background(), st.ID, "2026-08-29", model.StatusPresent)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetStatus(context.Background(), a.ID, "Tardy"), ErrInvalidStatus)
	require.NoError(t, svc.SetStatus(context.Background(), a.ID, model.StatusAbsent))
	assert.Equal(t, model.StatusAbsent, fs.marks[a.ID].Status)
}

func TestCreateStudentValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	err := svc.Create(context.Background(), &model.Student{RollNumber: "R-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = svc.Create(context.Background(), &model.Student{Name: "Asha"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDuplicateRollNumber(t *testing.T) {
	svc := NewService(newFakeStore())
	addStudent(t, svc, "Asha", "R-01", nil)

	err := svc.Create(context.Background(), &model.Student{Name: "Binu", RollNumber: "R-01"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
