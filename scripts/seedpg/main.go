// Command seedpg creates the Postgres schema and loads the canonical
// dataset, so a fresh database matches what the in-memory store seeds.
package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/academic-records-api/internal/repository"
	"github.com/noah-isme/academic-records-api/pkg/config"
	"github.com/noah-isme/academic-records-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS teachers (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    api_key         TEXT NOT NULL UNIQUE,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    expiration_date TIMESTAMPTZ NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS admins (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    api_key         TEXT NOT NULL UNIQUE,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    expiration_date TIMESTAMPTZ NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
    id   INTEGER PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS programs (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS school_years (
    id         INTEGER PRIMARY KEY,
    year       TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    student_no   TEXT NOT NULL,
    program_code TEXT,
    year_level   INTEGER NOT NULL,
    section      TEXT NOT NULL,
    school_level TEXT NOT NULL,
    year_code    TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS teaching_loads (
    id             INTEGER PRIMARY KEY,
    teacher_id     INTEGER NOT NULL REFERENCES teachers(id),
    course_id      TEXT NOT NULL,
    section        TEXT NOT NULL,
    year_level     INTEGER NOT NULL,
    program_code   TEXT,
    school_level   TEXT NOT NULL,
    school_year_id INTEGER NOT NULL REFERENCES school_years(id),
    semester       INTEGER NOT NULL,
    role           TEXT NOT NULL DEFAULT 'subject_teacher',
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
    id             INTEGER PRIMARY KEY,
    student_id     INTEGER NOT NULL REFERENCES students(id),
    course_id      TEXT NOT NULL,
    section        TEXT NOT NULL,
    year_level     INTEGER NOT NULL,
    program_code   TEXT,
    school_level   TEXT NOT NULL,
    year_code      TEXT NOT NULL,
    school_year_id INTEGER NOT NULL REFERENCES school_years(id),
    semester       INTEGER NOT NULL,
    grade_value    DOUBLE PRECISION NOT NULL,
    teacher_id     INTEGER NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id         INTEGER PRIMARY KEY,
    actor_kind TEXT NOT NULL,
    actor_id   INTEGER NOT NULL,
    action     TEXT NOT NULL,
    details    JSONB,
    timestamp  TIMESTAMPTZ NOT NULL
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("postgres connect failed: %v", err)
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("create schema failed: %v", err)
	}

	if err := load(db, repository.Seed()); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Println("database seeded")
}

func load(db *sqlx.DB, data repository.SeedDataset) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range data.Teachers {
		if _, err := tx.Exec(
			`INSERT INTO teachers (id, name, api_key, active, expiration_date, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Name, t.APIKey, t.Active, t.ExpirationDate, t.CreatedAt, t.UpdatedAt); err != nil {
			return err
		}
	}
	for _, a := range data.Admins {
		if _, err := tx.Exec(
			`INSERT INTO admins (id, name, api_key, active, expiration_date, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Name, a.APIKey, a.Active, a.ExpirationDate, a.CreatedAt, a.UpdatedAt); err != nil {
			return err
		}
	}
	for _, c := range data.Courses {
		if _, err := tx.Exec(
			`INSERT INTO courses (id, code, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Code, c.Name); err != nil {
			return err
		}
	}
	for _, p := range data.Programs {
		if _, err := tx.Exec(
			`INSERT INTO programs (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			p.Code, p.Name); err != nil {
			return err
		}
	}
	for _, y := range data.SchoolYears {
		if _, err := tx.Exec(
			`INSERT INTO school_years (id, year, start_date, end_date)
			 VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
			y.ID, y.Year, y.StartDate, y.EndDate); err != nil {
			return err
		}
	}
	for _, s := range data.Students {
		if _, err := tx.Exec(
			`INSERT INTO students (id, name, student_no, program_code, year_level, section, school_level, year_code, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Name, s.StudentNo, s.ProgramCode, s.YearLevel, s.Section, s.SchoolLevel, s.YearCode, s.CreatedAt); err != nil {
			return err
		}
	}
	for _, l := range data.Loads {
		if _, err := tx.Exec(
			`INSERT INTO teaching_loads (id, teacher_id, course_id, section, year_level, program_code, school_level, school_year_id, semester, role, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) ON CONFLICT (id) DO NOTHING`,
			l.ID, l.TeacherID, l.CourseID, l.Section, l.YearLevel, l.ProgramCode, l.SchoolLevel, l.SchoolYearID, l.Semester, l.Role, l.IsActive, l.CreatedAt, l.UpdatedAt); err != nil {
			return err
		}
	}
	for _, g := range data.Grades {
		if _, err := tx.Exec(
			`INSERT INTO grades (id, student_id, course_id, section, year_level, program_code, school_level, year_code, school_year_id, semester, grade_value, teacher_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) ON CONFLICT (id) DO NOTHING`,
			g.ID, g.StudentID, g.CourseID, g.Section, g.YearLevel, g.ProgramCode, g.SchoolLevel, g.YearCode, g.SchoolYearID, g.Semester, g.GradeValue, g.TeacherID, g.CreatedAt, g.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
