package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresTeacherByAPIKey(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "api_key", "active", "expiration_date", "created_at", "updated_at"}).
		AddRow(1, "John Doe", "hashed_key_1", true, now.Add(time.Hour), now, now)
	mock.ExpectQuery(`SELECT id, name, api_key, active, expiration_date, created_at, updated_at FROM teachers WHERE api_key = \$1`).
		WithArgs("hashed_key_1").
		WillReturnRows(rows)

	teacher, err := store.TeacherByAPIKey(context.Background(), "hashed_key_1")
	require.NoError(t, err)
	assert.Equal(t, 1, teacher.ID)
	assert.Equal(t, "John Doe", teacher.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTeacherByAPIKeyMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM teachers WHERE api_key = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := store.TeacherByAPIKey(context.Background(), "nope")
	assert.Equal(t, sql.ErrNoRows, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateLoadDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	cs := "CS"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM teaching_loads`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	load := &models.TeachingLoad{
		TeacherID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
	}
	err := store.CreateLoad(context.Background(), load)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateLoad.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateLoadInserts(t *testing.T) {
	store, mock := newMockStore(t)
	cs := "CS"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM teaching_loads`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO teaching_loads`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	load := &models.TeachingLoad{
		TeacherID: 2, CourseID: "MATH101", Section: "C", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
		Role: "subject_teacher",
	}
	require.NoError(t, store.CreateLoad(context.Background(), load))
	assert.Equal(t, 7, load.ID)
	assert.True(t, load.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMutateGradeMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM grades WHERE id = \$1 FOR UPDATE`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.MutateGrade(context.Background(), 99, 1, func(grade *models.Grade, loads []models.TeachingLoad) error {
		return nil
	})
	assert.Equal(t, sql.ErrNoRows, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMutateGradeLocksRowAndLoads(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	cs := "CS"

	gradeRows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "section", "year_level", "program_code", "school_level", "year_code", "school_year_id", "semester", "grade_value", "teacher_id", "created_at", "updated_at"}).
		AddRow(1, 1, "MATH101", "A", 1, cs, "COLLEGE", "Y1", 1, 1, 85.0, 1, now, now)
	loadRows := sqlmock.NewRows([]string{"id", "teacher_id", "course_id", "section", "year_level", "program_code", "school_level", "school_year_id", "semester", "role", "is_active", "created_at", "updated_at"}).
		AddRow(1, 1, "MATH101", "A", 1, cs, "COLLEGE", 1, 1, "subject_teacher", true, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM grades WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(gradeRows)
	mock.ExpectQuery(`SELECT .+ FROM teaching_loads WHERE teacher_id = \$1 AND is_active ORDER BY id FOR SHARE`).
		WithArgs(1).
		WillReturnRows(loadRows)
	mock.ExpectExec(`UPDATE grades`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.MutateGrade(context.Background(), 1, 1, func(grade *models.Grade, loads []models.TeachingLoad) error {
		require.Len(t, loads, 1)
		grade.GradeValue = 91
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMutateLoadWritesBackLockedRow(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	cs := "CS"

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "course_id", "section", "year_level", "program_code", "school_level", "school_year_id", "semester", "role", "is_active", "created_at", "updated_at"}).
		AddRow(1, 1, "MATH101", "A", 1, cs, "COLLEGE", 1, 1, "subject_teacher", true, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teaching_loads WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE teaching_loads`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		load.IsActive = false
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMutateLoadRollsBackOnFnError(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	cs := "CS"

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "course_id", "section", "year_level", "program_code", "school_level", "school_year_id", "semester", "role", "is_active", "created_at", "updated_at"}).
		AddRow(1, 1, "MATH101", "A", 1, cs, "COLLEGE", 1, 1, "subject_teacher", true, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM teaching_loads WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(rows)
	mock.ExpectRollback()

	err := store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		return appErrors.ErrForbidden
	})
	assert.Equal(t, appErrors.ErrForbidden, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendAuditLog(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	entry := &models.AuditLogEntry{
		ActorKind: models.ActorAdmin, ActorID: 1, Action: models.AuditActionLogin,
		Details: map[string]interface{}{"ip": "127.0.0.1"},
	}
	require.NoError(t, store.AppendAuditLog(context.Background(), entry))
	assert.Equal(t, 12, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAuditLogsFlipsToInsertionOrder(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "actor_kind", "actor_id", "action", "details", "timestamp"}).
		AddRow(3, "admin", 1, "view_grades", []byte(`{"filters":{}}`), now).
		AddRow(2, "teacher", 2, "view_teaching_loads", nil, now).
		AddRow(1, "teacher", 1, "login", nil, now)
	mock.ExpectQuery(`SELECT id, actor_kind, actor_id, action, details, timestamp FROM audit_logs ORDER BY id DESC`).
		WillReturnRows(rows)

	entries, err := store.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, "login", entries[0].Action)
	assert.Equal(t, 3, entries[2].ID)
	assert.NotNil(t, entries[2].Details)
	require.NoError(t, mock.ExpectationsWereMet())
}
