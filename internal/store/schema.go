package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. Constraints, not service
// code, enforce the relational invariants: unique email / roll number /
// staff id, the closed role and status sets, and attendance rows following
// their student on delete and on id update.
func Migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id          SERIAL PRIMARY KEY,
		staff_id    TEXT UNIQUE,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		role        TEXT NOT NULL DEFAULT 'teacher' CHECK (role IN ('admin', 'teacher')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS students (
		id              SERIAL PRIMARY KEY,
		name            TEXT NOT NULL,
		roll_number     TEXT NOT NULL UNIQUE,
		register_number TEXT,
		admission_year  TEXT,
		course_type     TEXT,
		course          TEXT,
		branch          TEXT,
		academic_year   TEXT,
		verification    TEXT,
		class           TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendances (
		id              SERIAL PRIMARY KEY,
		student_name    TEXT NOT NULL,
		register_number TEXT NOT NULL,
		date            DATE NOT NULL,
		status          TEXT NOT NULL CHECK (status IN ('Present', 'Absent')),
		student_id      INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE ON UPDATE CASCADE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email           ON users(email);
	CREATE INDEX IF NOT EXISTS idx_students_roll_number  ON students(roll_number);
	CREATE INDEX IF NOT EXISTS idx_attendances_student   ON attendances(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendances_date      ON attendances(date);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
