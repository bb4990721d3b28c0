package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/repository"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

func newGradeService(t *testing.T) (*GradeService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewSeededMemoryStore(100)
	audit := NewAuditService(store, nil)
	return NewGradeService(store, store, store, audit, nil), store
}

func floatPtr(v float64) *float64 { return &v }

func TestGradesVisibleThroughActiveLoads(t *testing.T) {
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), teacherPrincipal(1), models.GradeFilter{})
	require.NoError(t, err)
	require.Len(t, list.Grades, 2)
	assert.Equal(t, "MATH101", list.Grades[0].CourseID)
	assert.Equal(t, "CS101", list.Grades[1].CourseID)
	assert.Equal(t, 2, list.Metadata.TotalStudents)
	assert.Equal(t, 2, list.Metadata.TotalCourses)
}

func TestGradesAdminSeesEverything(t *testing.T) {
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), adminPrincipal(), models.GradeFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Grades, 6)
	assert.Equal(t, 5, list.Metadata.TotalStudents)
	assert.Equal(t, 6, list.Metadata.TotalCourses)
}

func TestGradesNilProgramScopesMatch(t *testing.T) {
	// K-12 loads and grades both carry a null program; they must pair up.
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), teacherPrincipal(3), models.GradeFilter{})
	require.NoError(t, err)
	require.Len(t, list.Grades, 2)
	for _, g := range list.Grades {
		assert.Nil(t, g.ProgramCode)
	}
}

func TestGradesVisibilityFollowsDeactivation(t *testing.T) {
	svc, store := newGradeService(t)
	loadSvc := NewTeachingLoadService(store, store, nil, nil, nil)
	require.NoError(t, loadSvc.Deactivate(context.Background(), adminPrincipal(), 1))

	list, err := svc.List(context.Background(), teacherPrincipal(1), models.GradeFilter{})
	require.NoError(t, err)
	require.Len(t, list.Grades, 1)
	assert.Equal(t, "CS101", list.Grades[0].CourseID)
}

func TestGradesStudentNamesJoined(t *testing.T) {
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), teacherPrincipal(1), models.GradeFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", list.Grades[0].StudentName)
	assert.Equal(t, "Bob Johnson", list.Grades[1].StudentName)
}

func TestGradesUnknownStudentName(t *testing.T) {
	grades := &stubGradeStore{grades: []models.Grade{
		{ID: 1, StudentID: 42, CourseID: "MATH101", GradeValue: 80},
	}}
	svc := NewGradeService(grades, &stubStudentReader{}, &stubLoadReader{}, nil, nil)

	list, err := svc.List(context.Background(), adminPrincipal(), models.GradeFilter{})
	require.NoError(t, err)
	require.Len(t, list.Grades, 1)
	assert.Equal(t, "Unknown", list.Grades[0].StudentName)
}

func TestGradesFilterCoercion(t *testing.T) {
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), adminPrincipal(), models.GradeFilter{Semester: "2"})
	require.NoError(t, err)
	assert.Len(t, list.Grades, 2)

	list, err = svc.List(context.Background(), adminPrincipal(), models.GradeFilter{Semester: "two"})
	require.NoError(t, err)
	assert.Empty(t, list.Grades)

	list, err = svc.List(context.Background(), adminPrincipal(), models.GradeFilter{ProgramCode: "CS"})
	require.NoError(t, err)
	assert.Len(t, list.Grades, 2)
}

func TestGradesMetadataCountsFilteredSet(t *testing.T) {
	svc, _ := newGradeService(t)

	list, err := svc.List(context.Background(), adminPrincipal(), models.GradeFilter{CourseID: "ENG101"})
	require.NoError(t, err)
	require.Len(t, list.Grades, 1)
	assert.Equal(t, 1, list.Metadata.TotalStudents)
	assert.Equal(t, 1, list.Metadata.TotalCourses)
}

func TestUpdateGradeRequiresPayload(t *testing.T) {
	svc, _ := newGradeService(t)

	_, err := svc.Update(context.Background(), adminPrincipal(), UpdateGradeRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Grade id and grade_value required", appErr.Message)
}

func TestUpdateGradeUnknownID(t *testing.T) {
	svc, _ := newGradeService(t)

	_, err := svc.Update(context.Background(), adminPrincipal(), UpdateGradeRequest{ID: 99, GradeValue: floatPtr(75)})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Grade not found", appErr.Message)
}

func TestUpdateGradeInScope(t *testing.T) {
	svc, store := newGradeService(t)

	grade, err := svc.Update(context.Background(), teacherPrincipal(1), UpdateGradeRequest{ID: 1, GradeValue: floatPtr(91)})
	require.NoError(t, err)
	assert.Equal(t, 91.0, grade.GradeValue)
	assert.Equal(t, 1, grade.TeacherID)

	stored, err := store.GradeByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 91.0, stored.GradeValue)
}

func TestUpdateGradeOutOfScope(t *testing.T) {
	// Teacher 2 holds no load matching grade 1's scope.
	svc, store := newGradeService(t)

	_, err := svc.Update(context.Background(), teacherPrincipal(2), UpdateGradeRequest{ID: 1, GradeValue: floatPtr(50)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden, err)

	stored, err := store.GradeByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 85.0, stored.GradeValue)
}

func TestUpdateGradeScopeCheckedAtWriteTime(t *testing.T) {
	// The visibility reader still reports an active matching load, but the
	// snapshot handed over with the write shows it gone; the write is denied.
	cs := "CS"
	grades := &stubGradeStore{grades: []models.Grade{{
		ID: 1, StudentID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
		GradeValue: 85,
	}}}
	staleLoad := models.TeachingLoad{
		ID: 1, TeacherID: 1, CourseID: "MATH101", Section: "A", YearLevel: 1,
		ProgramCode: &cs, SchoolLevel: "COLLEGE", SchoolYearID: 1, Semester: 1,
		IsActive: true,
	}
	svc := NewGradeService(grades, &stubStudentReader{}, &stubLoadReader{loads: []models.TeachingLoad{staleLoad}}, nil, nil)

	_, err := svc.Update(context.Background(), teacherPrincipal(1), UpdateGradeRequest{ID: 1, GradeValue: floatPtr(50)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden, err)
	assert.Equal(t, 85.0, grades.grades[0].GradeValue)
}

func TestUpdateGradeAdminRecordsWriter(t *testing.T) {
	// An admin write stamps the grade with the admin's id, last writer wins.
	svc, _ := newGradeService(t)

	grade, err := svc.Update(context.Background(), adminPrincipal(), UpdateGradeRequest{ID: 5, GradeValue: floatPtr(70)})
	require.NoError(t, err)
	assert.Equal(t, 70.0, grade.GradeValue)
	assert.Equal(t, 1, grade.TeacherID)
}

func TestUpdateGradeIsAudited(t *testing.T) {
	svc, store := newGradeService(t)

	_, err := svc.Update(context.Background(), teacherPrincipal(1), UpdateGradeRequest{ID: 1, GradeValue: floatPtr(88)})
	require.NoError(t, err)

	entries, err := store.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionUpdateGrade, entries[0].Action)
	assert.Equal(t, 1, entries[0].Details["grade_id"])
	assert.Equal(t, 88.0, entries[0].Details["new_value"])
}

type stubGradeStore struct {
	grades []models.Grade
	// mutateLoads is the active-load snapshot MutateGrade hands to fn,
	// independent of what ListActiveLoadsByTeacher reports.
	mutateLoads []models.TeachingLoad
}

func (s *stubGradeStore) ListGrades(ctx context.Context) ([]models.Grade, error) {
	return s.grades, nil
}

func (s *stubGradeStore) MutateGrade(ctx context.Context, id int, teacherID int, fn func(*models.Grade, []models.TeachingLoad) error) error {
	for i := range s.grades {
		if s.grades[i].ID == id {
			var loads []models.TeachingLoad
			for _, load := range s.mutateLoads {
				if load.TeacherID == teacherID && load.IsActive {
					loads = append(loads, load)
				}
			}
			cp := s.grades[i]
			if err := fn(&cp, loads); err != nil {
				return err
			}
			s.grades[i] = cp
			return nil
		}
	}
	return sql.ErrNoRows
}

type stubStudentReader struct {
	students []models.Student
}

func (s *stubStudentReader) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

type stubLoadReader struct {
	loads []models.TeachingLoad
}

func (s *stubLoadReader) ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error) {
	var out []models.TeachingLoad
	for _, load := range s.loads {
		if load.TeacherID == teacherID && load.IsActive {
			out = append(out, load)
		}
	}
	return out, nil
}
