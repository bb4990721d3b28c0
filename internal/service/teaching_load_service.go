package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type loadStore interface {
	ListLoads(ctx context.Context) ([]models.TeachingLoad, error)
	ListActiveLoadsByTeacher(ctx context.Context, teacherID int) ([]models.TeachingLoad, error)
	LoadByID(ctx context.Context, id int) (*models.TeachingLoad, error)
	CreateLoad(ctx context.Context, load *models.TeachingLoad) error
	MutateLoad(ctx context.Context, id int, fn func(*models.TeachingLoad) error) error
}

type referenceReader interface {
	TeacherByID(ctx context.Context, id int) (*models.Teacher, error)
	CourseByCode(ctx context.Context, code string) (*models.Course, error)
	ProgramByCode(ctx context.Context, code string) (*models.Program, error)
	SchoolYearByID(ctx context.Context, id int) (*models.SchoolYear, error)
}

// CreateLoadRequest is the admin payload for creating a teaching load.
// Every field except program_code is required; a zero semester is rejected
// like any other missing field, per contract.
type CreateLoadRequest struct {
	TeacherID    int     `json:"teacher_id" validate:"required"`
	CourseID     string  `json:"course_id" validate:"required"`
	Section      string  `json:"section" validate:"required"`
	YearLevel    int     `json:"year_level" validate:"required"`
	ProgramCode  *string `json:"program_code"`
	SchoolLevel  string  `json:"school_level" validate:"required"`
	SchoolYearID int     `json:"school_year_id" validate:"required"`
	Semester     int     `json:"semester" validate:"required"`
	Role         string  `json:"role" validate:"required"`
}

// UpdateLoadRequest carries optional field updates; nil or zero-valued
// fields are left untouched (is_active is applied whenever supplied).
type UpdateLoadRequest struct {
	TeacherID    *int    `json:"teacher_id"`
	CourseID     *string `json:"course_id"`
	Section      *string `json:"section"`
	YearLevel    *int    `json:"year_level"`
	ProgramCode  *string `json:"program_code"`
	SchoolLevel  *string `json:"school_level"`
	SchoolYearID *int    `json:"school_year_id"`
	Semester     *int    `json:"semester"`
	Role         *string `json:"role"`
	IsActive     *bool   `json:"is_active"`
}

// TeachingLoadService is the load query engine: it resolves the loads
// visible to a principal and owns the admin-only mutations.
type TeachingLoadService struct {
	loads     loadStore
	refs      referenceReader
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeachingLoadService creates a service instance.
func NewTeachingLoadService(loads loadStore, refs referenceReader, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *TeachingLoadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingLoadService{loads: loads, refs: refs, audit: audit, validator: validate, logger: logger}
}

// List returns the active loads visible to the principal after filtering
// and pagination. The page is sorted by id after slicing, not before:
// pagination operates on filtered insertion order, and only the returned
// page is ordered. Observable output depends on this, so it is preserved.
func (s *TeachingLoadService) List(ctx context.Context, principal models.Principal, filter models.LoadFilter, page models.Pagination) ([]models.TeachingLoad, error) {
	var base []models.TeachingLoad
	var err error

	switch principal.Kind {
	case models.ActorTeacher:
		base, err = s.loads.ListActiveLoadsByTeacher(ctx, principal.ID)
	case models.ActorAdmin:
		var all []models.TeachingLoad
		all, err = s.loads.ListLoads(ctx)
		for _, load := range all {
			if load.IsActive {
				base = append(base, load)
			}
		}
	default:
		return nil, appErrors.ErrForbidden
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching loads")
	}

	filtered := applyLoadFilter(base, filter)

	requested := page
	page = page.Normalize()
	start := (page.Page - 1) * page.Limit
	end := start + page.Limit
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	result := make([]models.TeachingLoad, end-start)
	copy(result, filtered[start:end])

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	s.audit.Record(ctx, principal, models.AuditActionViewLoads, listAuditDetails(filter, requested))
	return result, nil
}

// Create registers a new teaching load. Admin only.
func (s *TeachingLoadService) Create(ctx context.Context, principal models.Principal, req CreateLoadRequest) (*models.TeachingLoad, error) {
	switch principal.Kind {
	case models.ActorAdmin:
	case models.ActorTeacher:
		return nil, appErrors.ErrAdminOnly
	default:
		return nil, appErrors.ErrAdminOnly
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "All fields required")
	}

	program := normalizeProgram(req.ProgramCode)
	if err := s.checkReferences(ctx, &req.TeacherID, &req.CourseID, &req.SchoolYearID, program); err != nil {
		return nil, err
	}

	load := &models.TeachingLoad{
		TeacherID:    req.TeacherID,
		CourseID:     req.CourseID,
		Section:      req.Section,
		YearLevel:    req.YearLevel,
		ProgramCode:  program,
		SchoolLevel:  req.SchoolLevel,
		SchoolYearID: req.SchoolYearID,
		Semester:     req.Semester,
		Role:         req.Role,
	}
	if err := s.loads.CreateLoad(ctx, load); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDuplicateLoad.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teaching load")
	}

	s.audit.Record(ctx, principal, models.AuditActionCreateLoad, map[string]interface{}{"load_id": load.ID})
	return load, nil
}

// Update mutates the supplied fields of an existing load. Admin only.
// Every supplied referencing field is re-validated independently.
func (s *TeachingLoadService) Update(ctx context.Context, principal models.Principal, id int, req UpdateLoadRequest) (*models.TeachingLoad, error) {
	switch principal.Kind {
	case models.ActorAdmin:
	case models.ActorTeacher:
		return nil, appErrors.ErrAdminOnly
	default:
		return nil, appErrors.ErrAdminOnly
	}

	if _, err := s.loads.LoadByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Teaching load not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching load")
	}

	var program *string
	if req.ProgramCode != nil && *req.ProgramCode != "" {
		program = req.ProgramCode
	}
	var teacherID *int
	if req.TeacherID != nil && *req.TeacherID != 0 {
		teacherID = req.TeacherID
	}
	var courseID *string
	if req.CourseID != nil && *req.CourseID != "" {
		courseID = req.CourseID
	}
	var schoolYearID *int
	if req.SchoolYearID != nil && *req.SchoolYearID != 0 {
		schoolYearID = req.SchoolYearID
	}
	if err := s.checkReferences(ctx, teacherID, courseID, schoolYearID, program); err != nil {
		return nil, err
	}

	// Fields are applied to the row the store hands back under its write
	// lock, never to the pre-check copy: a deactivation committed after the
	// existence check survives the update.
	var updated models.TeachingLoad
	err := s.loads.MutateLoad(ctx, id, func(load *models.TeachingLoad) error {
		if teacherID != nil {
			load.TeacherID = *teacherID
		}
		if courseID != nil {
			load.CourseID = *courseID
		}
		if schoolYearID != nil {
			load.SchoolYearID = *schoolYearID
		}
		if program != nil {
			load.ProgramCode = program
		}
		if req.Section != nil && *req.Section != "" {
			load.Section = *req.Section
		}
		if req.YearLevel != nil && *req.YearLevel != 0 {
			load.YearLevel = *req.YearLevel
		}
		if req.SchoolLevel != nil && *req.SchoolLevel != "" {
			load.SchoolLevel = *req.SchoolLevel
		}
		if req.Semester != nil && *req.Semester != 0 {
			load.Semester = *req.Semester
		}
		if req.Role != nil && *req.Role != "" {
			load.Role = *req.Role
		}
		if req.IsActive != nil {
			load.IsActive = *req.IsActive
		}
		load.UpdatedAt = time.Now().UTC()
		updated = *load
		return nil
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Teaching load not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teaching load")
	}

	s.audit.Record(ctx, principal, models.AuditActionUpdateLoad, map[string]interface{}{"load_id": id})
	return &updated, nil
}

// Deactivate soft-deletes a load. Admin only; idempotent.
func (s *TeachingLoadService) Deactivate(ctx context.Context, principal models.Principal, id int) error {
	switch principal.Kind {
	case models.ActorAdmin:
	case models.ActorTeacher:
		return appErrors.ErrAdminOnly
	default:
		return appErrors.ErrAdminOnly
	}

	err := s.loads.MutateLoad(ctx, id, func(load *models.TeachingLoad) error {
		load.IsActive = false
		load.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Teaching load not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate teaching load")
	}

	s.audit.Record(ctx, principal, models.AuditActionDeactivateLoad, map[string]interface{}{"load_id": id})
	return nil
}

// checkReferences validates each supplied referencing field against its
// collection. Failures surface as 400 on create/update paths, matching the
// legacy contract.
func (s *TeachingLoadService) checkReferences(ctx context.Context, teacherID *int, courseCode *string, schoolYearID *int, program *string) error {
	if teacherID != nil {
		if _, err := s.refs.TeacherByID(ctx, *teacherID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.BadReference("Teacher not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
		}
	}
	if courseCode != nil {
		if _, err := s.refs.CourseByCode(ctx, *courseCode); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.BadReference("Course not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
		}
	}
	if schoolYearID != nil {
		if _, err := s.refs.SchoolYearByID(ctx, *schoolYearID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.BadReference("School year not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check school year")
		}
	}
	if program != nil {
		if _, err := s.refs.ProgramByCode(ctx, *program); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.BadReference("Program not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program")
		}
	}
	return nil
}

func applyLoadFilter(loads []models.TeachingLoad, f models.LoadFilter) []models.TeachingLoad {
	if f.Empty() {
		return loads
	}
	var out []models.TeachingLoad
	for _, load := range loads {
		if f.SchoolYearID != "" && !matchesInt(f.SchoolYearID, load.SchoolYearID) {
			continue
		}
		if f.SchoolLevel != "" && load.SchoolLevel != f.SchoolLevel {
			continue
		}
		if f.ProgramCode != "" && !matchesProgram(f.ProgramCode, load.ProgramCode) {
			continue
		}
		if f.YearLevel != "" && !matchesInt(f.YearLevel, load.YearLevel) {
			continue
		}
		if f.Section != "" && load.Section != f.Section {
			continue
		}
		if f.TeacherID != "" && !matchesInt(f.TeacherID, load.TeacherID) {
			continue
		}
		if f.CourseID != "" && load.CourseID != f.CourseID {
			continue
		}
		out = append(out, load)
	}
	return out
}

// listAuditDetails mirrors the request query in the audit entry: the filter
// params plus page/limit when the client sent them.
func listAuditDetails(f models.LoadFilter, page models.Pagination) map[string]interface{} {
	details := map[string]interface{}{"filters": loadFilterDetails(f)}
	if page.Page > 0 {
		details["page"] = page.Page
	}
	if page.Limit > 0 {
		details["limit"] = page.Limit
	}
	return details
}

func loadFilterDetails(f models.LoadFilter) map[string]string {
	details := map[string]string{}
	if f.SchoolYearID != "" {
		details["school_year_id"] = f.SchoolYearID
	}
	if f.SchoolLevel != "" {
		details["school_level"] = f.SchoolLevel
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
	if f.TeacherID != "" {
		details["teacher_id"] = f.TeacherID
	}
	if f.CourseID != "" {
		details["course_id"] = f.CourseID
	}
	return details
}

func normalizeProgram(code *string) *string {
	if code == nil || *code == "" {
		return nil
	}
	return code
}
