package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

func TestTeacherByAPIKey(t *testing.T) {
	store := NewSeededMemoryStore(10)

	teacher, err := store.TeacherByAPIKey(context.Background(), "hashed_key_1")
	require.NoError(t, err)
	assert.Equal(t, 1, teacher.ID)
	assert.Equal(t, "John Doe", teacher.Name)

	_, err = store.TeacherByAPIKey(context.Background(), "nope")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestAdminByAPIKey(t *testing.T) {
	store := NewSeededMemoryStore(10)

	admin, err := store.AdminByAPIKey(context.Background(), "admin_key_1")
	require.NoError(t, err)
	assert.Equal(t, "Admin User", admin.Name)
}

func TestLookupsReturnCopies(t *testing.T) {
	store := NewSeededMemoryStore(10)

	load, err := store.LoadByID(context.Background(), 1)
	require.NoError(t, err)
	load.Section = "Z"

	again, err := store.LoadByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Section)
}

func TestListActiveLoadsByTeacher(t *testing.T) {
	store := NewSeededMemoryStore(10)

	loads, err := store.ListActiveLoadsByTeacher(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, loads, 2)

	loads[0].IsActive = false
	load, err := store.LoadByID(context.Background(), loads[0].ID)
	require.NoError(t, err)
	assert.True(t, load.IsActive)
}

func TestCreateLoadRejectsActiveDuplicate(t *testing.T) {
	store := NewSeededMemoryStore(10)
	cs := "CS"

	dup := &models.TeachingLoad{
		TeacherID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
	}
	err := store.CreateLoad(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateLoad.Code, appErrors.FromError(err).Code)
}

func TestCreateLoadDifferentTeacherSameScope(t *testing.T) {
	// The duplicate check includes teacher_id; another teacher may hold the
	// same seven-field scope.
	store := NewSeededMemoryStore(10)
	cs := "CS"

	load := &models.TeachingLoad{
		TeacherID: 2, CourseID: "MATH101", Section: "A", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
	}
	require.NoError(t, store.CreateLoad(context.Background(), load))
	assert.Equal(t, 7, load.ID)
	assert.True(t, load.IsActive)
	assert.False(t, load.CreatedAt.IsZero())
}

func TestMutateLoadUnknownID(t *testing.T) {
	store := NewSeededMemoryStore(10)

	err := store.MutateLoad(context.Background(), 99, func(load *models.TeachingLoad) error {
		return nil
	})
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestMutateLoadSeesCurrentRow(t *testing.T) {
	store := NewSeededMemoryStore(10)

	require.NoError(t, store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		load.IsActive = false
		return nil
	}))

	err := store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		assert.False(t, load.IsActive)
		load.Section = "B"
		return nil
	})
	require.NoError(t, err)

	stored, err := store.LoadByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "B", stored.Section)
}

func TestMutateLoadErrorLeavesRowUnchanged(t *testing.T) {
	store := NewSeededMemoryStore(10)

	err := store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		load.Section = "Z"
		return appErrors.ErrForbidden
	})
	require.Error(t, err)

	stored, err := store.LoadByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Section)
}

func TestMutateGradePersists(t *testing.T) {
	store := NewSeededMemoryStore(10)

	err := store.MutateGrade(context.Background(), 1, 1, func(grade *models.Grade, loads []models.TeachingLoad) error {
		grade.GradeValue = 99
		return nil
	})
	require.NoError(t, err)

	stored, err := store.GradeByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 99.0, stored.GradeValue)
}

func TestMutateGradeLoadsSnapshotExcludesDeactivated(t *testing.T) {
	store := NewSeededMemoryStore(10)

	require.NoError(t, store.MutateLoad(context.Background(), 1, func(load *models.TeachingLoad) error {
		load.IsActive = false
		return nil
	}))

	err := store.MutateGrade(context.Background(), 1, 1, func(grade *models.Grade, loads []models.TeachingLoad) error {
		for _, load := range loads {
			assert.NotEqual(t, 1, load.ID)
			assert.True(t, load.IsActive)
		}
		return appErrors.ErrForbidden
	})
	assert.Equal(t, appErrors.ErrForbidden, err)
}

func TestAuditIDsMonotonicAcrossEviction(t *testing.T) {
	store := NewMemoryStore(3)

	for i := 0; i < 5; i++ {
		err := store.AppendAuditLog(context.Background(), &models.AuditLogEntry{
			ActorKind: models.ActorAdmin, ActorID: 1, Action: models.AuditActionLogin,
		})
		require.NoError(t, err)
	}

	entries, err := store.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[0].ID)
	assert.Equal(t, 4, entries[1].ID)
	assert.Equal(t, 5, entries[2].ID)
}

func TestListAuditLogsLimit(t *testing.T) {
	store := NewMemoryStore(10)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.AppendAuditLog(context.Background(), &models.AuditLogEntry{
			ActorKind: models.ActorTeacher, ActorID: 1, Action: models.AuditActionViewLoads,
		}))
	}

	entries, err := store.ListAuditLogs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].ID)
	assert.Equal(t, 4, entries[1].ID)
}

func TestReferenceLookups(t *testing.T) {
	store := NewSeededMemoryStore(10)
	ctx := context.Background()

	course, err := store.CourseByCode(ctx, "MATH101")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics 101", course.Name)

	program, err := store.ProgramByCode(ctx, "CS")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", program.Name)

	year, err := store.SchoolYearByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-2025", year.Year)

	_, err = store.CourseByCode(ctx, "NOPE")
	assert.Equal(t, sql.ErrNoRows, err)
}
