package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

// PostgresStore implements the record store on PostgreSQL. Field-filter and
// scope-matching semantics stay in the service layer; this store only
// performs lookups, base scoping and writes.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const teacherColumns = `id, name, api_key, active, expiration_date, created_at, updated_at`

// TeacherByAPIKey finds a teacher by exact key.
func (s *PostgresStore) TeacherByAPIKey(ctx context.Context, key string) (*models.Teacher, error) {
	var teacher models.Teacher
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE api_key = $1`, teacherColumns)
	if err := s.db.GetContext(ctx, &teacher, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("teacher by api key: %w", err)
	}
	return &teacher, nil
}

// AdminByAPIKey finds an admin by exact key.
func (s *PostgresStore) AdminByAPIKey(ctx context.Context, key string) (*models.Admin, error) {
	var admin models.Admin
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE api_key = $1`, teacherColumns)
	if err := s.db.GetContext(ctx, &admin, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("admin by api key: %w", err)
	}
	return &admin, nil
}

// TeacherByID looks up a teacher record.
func (s *PostgresStore) TeacherByID(ctx context.Context, id int) (*models.Teacher, error) {
	var teacher models.Teacher
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE id = $1`, teacherColumns)
	if err := s.db.GetContext(ctx, &teacher, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("teacher by id: %w", err)
	}
	return &teacher, nil
}

// CourseByCode resolves a course by code.
func (s *PostgresStore) CourseByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := s.db.GetContext(ctx, &course, `SELECT id, code, name FROM courses WHERE code = $1`, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("course by code: %w", err)
	}
	return &course, nil
}

// ProgramByCode resolves a program by code.
func (s *PostgresStore) ProgramByCode(ctx context.Context, code string) (*models.Program, error) {
	var program models.Program
	if err := s.db.GetContext(ctx, &program, `SELECT code, name FROM programs WHERE code = $1`, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("program by code: %w", err)
	}
	return &program, nil
}

// SchoolYearByID resolves a school year.
func (s *PostgresStore) SchoolYearByID(ctx context.Context, id int) (*models.SchoolYear, error) {
	var year models.SchoolYear
	if err := s.db.GetContext(ctx, &year, `SELECT id, year, start_date, end_date FROM school_years WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("school year by id: %w", err)
	}
	return &year, nil
}

// ListStudents returns all students.
func (s *PostgresStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	const query = `SELECT id, name, student_no, program_code, year_level, section, school_level, year_code, created_at FROM students ORDER BY id`
	if err := s.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

const loadColumns = `id, teacher_id, course_id, section, year_level, program_code, school_level, school_year_id, semester, role, is_active, created_at, updated_at`

// ListLoads returns all teaching loads in insertion (id) order.
func (s *PostgresStore) ListLoads(ctx context.Context) ([]models.TeachingLoad, error) {
	var loads []models.TeachingLoad
	query := fmt.Sprintf(`SELECT %s FROM teaching_loads ORDER BY id`, loadColumns)
	if err := s.db.SelectContext(ctx, &loads, query); err != nil {
		return nil, fmt.Errorf("list teaching loads: %w", err)
	}
	return loads, nil
}

// ListActiveLoadsByTeacher returns the active loads owned by a teacher.
func (s *PostgresStore) ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error) {
	var loads []models.TeachingLoad
	query := fmt.Sprintf(`SELECT %s FROM teaching_loads WHERE teacher_id = $1 AND is_active ORDER BY id`, loadColumns)
	if err := s.db.SelectContext(ctx, &loads, query, teacherID); err != nil {
		return nil, fmt.Errorf("list loads by teacher: %w", err)
	}
	return loads, nil
}

// LoadByID looks up a teaching load.
func (s *PostgresStore) LoadByID(ctx context.Context, id int) (*models.TeachingLoad, error) {
	var load models.TeachingLoad
	query := fmt.Sprintf(`SELECT %s FROM teaching_loads WHERE id = $1`, loadColumns)
	if err := s.db.GetContext(ctx, &load, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("load by id: %w", err)
	}
	return &load, nil
}

// CreateLoad inserts a new load inside one transaction: the
// active-duplicate check and the insert cannot interleave with another
// writer on the same collection.
func (s *PostgresStore) CreateLoad(ctx context.Context, load *models.TeachingLoad) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create load: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const dupQuery = `
SELECT 1 FROM teaching_loads
WHERE is_active
  AND teacher_id = $1 AND course_id = $2 AND section = $3 AND year_level = $4
  AND program_code IS NOT DISTINCT FROM $5
  AND school_level = $6 AND school_year_id = $7 AND semester = $8
LIMIT 1`
	var one int
	err = tx.GetContext(ctx, &one, dupQuery,
		load.TeacherID, load.CourseID, load.Section, load.YearLevel,
		load.ProgramCode, load.SchoolLevel, load.SchoolYearID, load.Semester)
	if err == nil {
		return appErrors.ErrDuplicateLoad
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check duplicate load: %w", err)
	}

	now := time.Now().UTC()
	load.IsActive = true
	load.CreatedAt = now
	load.UpdatedAt = now

	const insertQuery = `
INSERT INTO teaching_loads (id, teacher_id, course_id, section, year_level, program_code, school_level, school_year_id, semester, role, is_active, created_at, updated_at)
VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM teaching_loads), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`
	if err := tx.GetContext(ctx, &load.ID, insertQuery,
		load.TeacherID, load.CourseID, load.Section, load.YearLevel,
		load.ProgramCode, load.SchoolLevel, load.SchoolYearID, load.Semester,
		load.Role, load.IsActive, load.CreatedAt, load.UpdatedAt); err != nil {
		return fmt.Errorf("insert teaching load: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create load: %w", err)
	}
	return nil
}

// MutateLoad locks the row inside a transaction, applies fn to the freshly
// read record and writes it back. A concurrent mutation of the same load
// serializes on the row lock, so fn never operates on a stale copy.
func (s *PostgresStore) MutateLoad(ctx context.Context, id int, fn func(*models.TeachingLoad) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mutate load: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var load models.TeachingLoad
	query := fmt.Sprintf(`SELECT %s FROM teaching_loads WHERE id = $1 FOR UPDATE`, loadColumns)
	if err := tx.GetContext(ctx, &load, query, id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock teaching load: %w", err)
	}

	if err := fn(&load); err != nil {
		return err
	}
	load.ID = id

	const update = `
UPDATE teaching_loads
SET teacher_id = :teacher_id, course_id = :course_id, section = :section,
    year_level = :year_level, program_code = :program_code, school_level = :school_level,
    school_year_id = :school_year_id, semester = :semester, role = :role,
    is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, update, &load); err != nil {
		return fmt.Errorf("update teaching load: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mutate load: %w", err)
	}
	return nil
}

const gradeColumns = `id, student_id, course_id, section, year_level, program_code, school_level, year_code, school_year_id, semester, grade_value, teacher_id, created_at, updated_at`

// ListGrades returns all grades in insertion (id) order.
func (s *PostgresStore) ListGrades(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	query := fmt.Sprintf(`SELECT %s FROM grades ORDER BY id`, gradeColumns)
	if err := s.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// GradeByID looks up a grade.
func (s *PostgresStore) GradeByID(ctx context.Context, id int) (*models.Grade, error) {
	var grade models.Grade
	query := fmt.Sprintf(`SELECT %s FROM grades WHERE id = $1`, gradeColumns)
	if err := s.db.GetContext(ctx, &grade, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("grade by id: %w", err)
	}
	return &grade, nil
}

// MutateGrade locks the grade row inside a transaction and reads the
// teacher's active loads with a share lock before applying fn. A load
// deactivation committed by MutateLoad cannot slip between the
// authorization check and the grade write.
func (s *PostgresStore) MutateGrade(ctx context.Context, id int, teacherID int, fn func(*models.Grade, []models.TeachingLoad) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mutate grade: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var grade models.Grade
	query := fmt.Sprintf(`SELECT %s FROM grades WHERE id = $1 FOR UPDATE`, gradeColumns)
	if err := tx.GetContext(ctx, &grade, query, id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("lock grade: %w", err)
	}

	var loads []models.TeachingLoad
	loadQuery := fmt.Sprintf(`SELECT %s FROM teaching_loads WHERE teacher_id = $1 AND is_active ORDER BY id FOR SHARE`, loadColumns)
	if err := tx.SelectContext(ctx, &loads, loadQuery, teacherID); err != nil {
		return fmt.Errorf("lock loads by teacher: %w", err)
	}

	if err := fn(&grade, loads); err != nil {
		return err
	}
	grade.ID = id

	const update = `
UPDATE grades
SET grade_value = :grade_value, teacher_id = :teacher_id, updated_at = :updated_at
WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, update, &grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mutate grade: %w", err)
	}
	return nil
}

// AppendAuditLog inserts an audit entry with the next monotonic id.
func (s *PostgresStore) AppendAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	const query = `
INSERT INTO audit_logs (id, actor_kind, actor_id, action, details, timestamp)
VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM audit_logs), $1, $2, $3, $4, $5)
RETURNING id`
	if err := s.db.GetContext(ctx, &entry.ID, query,
		entry.ActorKind, entry.ActorID, entry.Action, details, entry.Timestamp); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns up to limit of the most recent entries, oldest first.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	type auditRow struct {
		ID        int              `db:"id"`
		ActorKind models.ActorKind `db:"actor_kind"`
		ActorID   int              `db:"actor_id"`
		Action    string           `db:"action"`
		Details   []byte           `db:"details"`
		Timestamp time.Time        `db:"timestamp"`
	}

	query := `SELECT id, actor_kind, actor_id, action, details, timestamp FROM audit_logs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []auditRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	// Rows come back newest first; flip to insertion order.
	out := make([]models.AuditLogEntry, len(rows))
	for i, row := range rows {
		entry := models.AuditLogEntry{
			ID:        row.ID,
			ActorKind: row.ActorKind,
			ActorID:   row.ActorID,
			Action:    row.Action,
			Timestamp: row.Timestamp,
		}
		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		out[len(rows)-1-i] = entry
	}
	return out, nil
}
