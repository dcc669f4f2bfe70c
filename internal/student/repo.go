package student

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"recordbook/internal/model"
	"recordbook/internal/store"
)

// Repository persists students and their attendance marks in Postgres.
// Referential integrity lives in the schema: deleting a student cascades to
// its attendance rows, so there is no manual cleanup here.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentColumns = `id, name, roll_number, register_number, admission_year, course_type,
	course, branch, academic_year, verification, class, created_at, updated_at`

// List returns all students ordered by roll number.
func (r *Repository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY roll_number
	`)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var st model.Student
		if err := scanStudent(rows, &st); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, store.MapError(rows.Err())
}

// Get returns a single student by id.
func (r *Repository) Get(ctx context.Context, id int) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE id = $1
	`, id)
	var st model.Student
	if err := scanStudent(row, &st); err != nil {
		return nil, store.MapError(err)
	}
	return &st, nil
}

// Create inserts a student and fills in generated fields. A duplicate roll
// number surfaces as store.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, st *model.Student) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, roll_number, register_number, admission_year,
			course_type, course, branch, academic_year, verification, class)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`, st.Name, st.RollNumber, st.RegisterNumber, st.AdmissionYear,
		st.CourseType, st.Course, st.Branch, st.AcademicYear, st.Verification, st.Class)
	if err := row.Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return store.MapError(err)
	}
	return nil
}

// Update rewrites a student record.
func (r *Repository) Update(ctx context.Context, st *model.Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = $2, roll_number = $3, register_number = $4, admission_year = $5,
			course_type = $6, course = $7, branch = $8, academic_year = $9,
			verification = $10, class = $11, updated_at = NOW()
		WHERE id = $1
	`, st.ID, st.Name, st.RollNumber, st.RegisterNumber, st.AdmissionYear,
		st.CourseType, st.Course, st.Branch, st.AcademicYear, st.Verification, st.Class)
	if err != nil {
		return store.MapError(err)
	}
	return noneIsNotFound(res)
}

// Delete removes a student. Attendance rows follow via the schema cascade.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return store.MapError(err)
	}
	return noneIsNotFound(res)
}

const attendanceColumns = `id, student_name, register_number, date, status, student_id, created_at, updated_at`

// InsertAttendance writes a mark. Referencing a nonexistent student surfaces
// as store.ErrForeignKey; no row is created.
func (r *Repository) InsertAttendance(ctx context.Context, a *model.Attendance) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendances (student_name, register_number, date, status, student_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.StudentName, a.RegisterNumber, a.Date, a.Status, a.StudentID)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return store.MapError(err)
	}
	return nil
}

// UpdateAttendanceStatus changes the status of an existing mark.
func (r *Repository) UpdateAttendanceStatus(ctx context.Context, id int, status model.AttendanceStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendances SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return store.MapError(err)
	}
	return noneIsNotFound(res)
}

// DeleteAttendance removes a single mark.
func (r *Repository) DeleteAttendance(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return store.MapError(err)
	}
	return noneIsNotFound(res)
}

// ListAttendance returns marks with optional student and date filters,
// newest first.
func (r *Repository) ListAttendance(ctx context.Context, studentID int, date string) ([]model.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances`
	args := []any{}
	clauses := []string{}
	if studentID > 0 {
		args = append(args, studentID)
		clauses = append(clauses, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if date != "" {
		args = append(args, date)
		clauses = append(clauses, fmt.Sprintf("date = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.MapError(err)
	}
	defer rows.Close()

	var marks []model.Attendance
	for rows.Next() {
		var a model.Attendance
		var day time.Time
		if err := rows.Scan(&a.ID, &a.StudentName, &a.RegisterNumber, &day, &a.Status,
			&a.StudentID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Date = day.Format("2006-01-02")
		marks = append(marks, a)
	}
	return marks, store.MapError(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, st *model.Student) error {
	return row.Scan(&st.ID, &st.Name, &st.RollNumber, &st.RegisterNumber, &st.AdmissionYear,
		&st.CourseType, &st.Course, &st.Branch, &st.AcademicYear, &st.Verification,
		&st.Class, &st.CreatedAt, &st.UpdatedAt)
}

// noneIsNotFound turns a zero-row result into store.ErrNotFound.
func noneIsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
