package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type gradeStore interface {
	ListGrades(ctx context.Context) ([]models.Grade, error)
	MutateGrade(ctx context.Context, id int, teacherID int, fn func(*models.Grade, []models.TeachingLoad) error) error
}

type studentReader interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
}

type teacherLoadReader interface {
	ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error)
}

// UpdateGradeRequest is the payload for writing one grade value.
type UpdateGradeRequest struct {
	ID         int      `json:"id"`
	GradeValue *float64 `json:"grade_value"`
}

// GradeService is the grade access engine: visibility is derived from the
// principal's active teaching loads through the scope tuple.
type GradeService struct {
	grades   gradeStore
	students studentReader
	loads    teacherLoadReader
	audit    *AuditService
	logger   *zap.Logger
}

// NewGradeService creates a service instance.
func NewGradeService(grades gradeStore, students studentReader, loads teacherLoadReader, audit *AuditService, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, students: students, loads: loads, audit: audit, logger: logger}
}

// List returns the grade views visible to the principal plus distinct-count
// metadata over the filtered set.
func (s *GradeService) List(ctx context.Context, principal models.Principal, filter models.GradeFilter) (*models.GradeList, error) {
	result, err := s.collect(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, principal, models.AuditActionViewGrades, map[string]interface{}{"filters": gradeFilterDetails(filter)})
	return result, nil
}

// collect computes the visible, filtered grade views without auditing so
// the export path can reuse it under its own audit action.
func (s *GradeService) collect(ctx context.Context, principal models.Principal, filter models.GradeFilter) (*models.GradeList, error) {
	visible, err := s.visibleGrades(ctx, principal)
	if err != nil {
		return nil, err
	}

	filtered := applyGradeFilter(visible, filter)

	studentNames, err := s.studentNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.GradeView, 0, len(filtered))
	studentSet := make(map[int]struct{})
	courseSet := make(map[string]struct{})
	for _, g := range filtered {
		name, ok := studentNames[g.StudentID]
		if !ok {
			name = "Unknown"
		}
		views = append(views, models.GradeView{
			StudentID:    g.StudentID,
			CourseID:     g.CourseID,
			Grade:        g.GradeValue,
			SchoolYearID: g.SchoolYearID,
			Semester:     g.Semester,
			ProgramCode:  g.ProgramCode,
			SchoolLevel:  g.SchoolLevel,
			YearLevel:    g.YearLevel,
			Section:      g.Section,
			StudentName:  name,
		})
		studentSet[g.StudentID] = struct{}{}
		courseSet[g.CourseID] = struct{}{}
	}

	return &models.GradeList{
		Grades: views,
		Metadata: models.GradeMetadata{
			TotalStudents: len(studentSet),
			TotalCourses:  len(courseSet),
		},
	}, nil
}

// Update writes one grade value. Teachers must hold an active load whose
// scope tuple matches the grade's; admins may write anywhere. The grade's
// teacher_id records the writing principal, last writer wins.
func (s *GradeService) Update(ctx context.Context, principal models.Principal, req UpdateGradeRequest) (*models.Grade, error) {
	if req.ID == 0 || req.GradeValue == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Grade id and grade_value required")
	}

	// The scope check runs against the loads the store snapshots in the same
	// critical section as the write, so a deactivated load cannot authorize
	// a grade mutation.
	var updated models.Grade
	err := s.grades.MutateGrade(ctx, req.ID, principal.ID, func(grade *models.Grade, teacherLoads []models.TeachingLoad) error {
		switch principal.Kind {
		case models.ActorAdmin:
		case models.ActorTeacher:
			allowed := false
			for _, load := range teacherLoads {
				if load.Scope().Matches(grade.Scope()) {
					allowed = true
					break
				}
			}
			if !allowed {
				return appErrors.ErrForbidden
			}
		default:
			return appErrors.ErrForbidden
		}

		grade.GradeValue = *req.GradeValue
		grade.TeacherID = principal.ID
		grade.UpdatedAt = time.Now().UTC()
		updated = *grade
		return nil
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Grade not found")
		}
		if appErr, ok := err.(*appErrors.Error); ok {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}

	s.audit.Record(ctx, principal, models.AuditActionUpdateGrade, map[string]interface{}{
		"grade_id":  req.ID,
		"new_value": *req.GradeValue,
	})
	return &updated, nil
}

func (s *GradeService) visibleGrades(ctx context.Context, principal models.Principal) ([]models.Grade, error) {
	all, err := s.grades.ListGrades(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}

	switch principal.Kind {
	case models.ActorAdmin:
		return all, nil
	case models.ActorTeacher:
		loads, err := s.loads.ListActiveLoadsByTeacher(ctx, principal.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching loads")
		}
		var visible []models.Grade
		for _, g := range all {
			for _, load := range loads {
				if load.Scope().Matches(g.Scope()) {
					visible = append(visible, g)
					break
				}
			}
		}
		return visible, nil
	default:
		return nil, appErrors.ErrForbidden
	}
}

func (s *GradeService) studentNames(ctx context.Context) (map[int]string, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	names := make(map[int]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}
	return names, nil
}

func applyGradeFilter(grades []models.Grade, f models.GradeFilter) []models.Grade {
	if f == (models.GradeFilter{}) {
		return grades
	}
	var out []models.Grade
	for _, g := range grades {
		if f.SchoolYearID != "" && !matchesInt(f.SchoolYearID, g.SchoolYearID) {
			continue
		}
		if f.Semester != "" && !matchesInt(f.Semester, g.Semester) {
			continue
		}
		if f.ProgramCode != "" && !matchesProgram(f.ProgramCode, g.ProgramCode) {
			continue
		}
		if f.YearLevel != "" && !matchesInt(f.YearLevel, g.YearLevel) {
			continue
		}
		if f.Section != "" && g.Section != f.Section {
			continue
		}
		if f.CourseID != "" && g.CourseID != f.CourseID {
			continue
		}
		if f.TeacherID != "" && !matchesInt(f.TeacherID, g.TeacherID) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func gradeFilterDetails(f models.GradeFilter) map[string]string {
	details := map[string]string{}
	if f.SchoolYearID != "" {
		details["school_year_id"] = f.SchoolYearID
	}
	if f.Semester != "" {
		details["semester"] = f.Semester
	}
	if f.ProgramCode != "" {
		details["program_code"] = f.ProgramCode
	}
	if f.YearLevel != "" {
		details["year_level"] = f.YearLevel
	}
	if f.Section != "" {
		details["section"] = f.Section
	}
	if f.CourseID != "" {
		details["course_id"] = f.CourseID
	}
	if f.TeacherID != "" {
		details["teacher_id"] = f.TeacherID
	}
	return details
}
