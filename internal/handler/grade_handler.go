package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// GradeHandler wires HTTP endpoints to the grade and export services.
type GradeHandler struct {
	service *service.GradeService
	export  *service.ExportService
	cache   *service.CacheService
}

// NewGradeHandler creates a new handler.
func NewGradeHandler(svc *service.GradeService, export *service.ExportService, cache *service.CacheService) *GradeHandler {
	return &GradeHandler{service: svc, export: export, cache: cache}
}

// List godoc
// @Summary List visible grades
// @Description Teachers see grades matched by their active load scopes, admins all grades
// @Tags Grades
// @Produce json
// @Param school_year_id query string false "School year filter"
// @Param semester query string false "Semester filter"
// @Param program_code query string false "Program filter"
// @Param year_level query string false "Year level filter"
// @Param section query string false "Section filter"
// @Param course_id query string false "Course filter"
// @Param teacher_id query string false "Teacher filter"
// @Success 200 {object} models.GradeList
// @Failure 401 {object} map[string]string
// @Security ApiKeyAuth
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	list, err := h.service.List(c.Request.Context(), principal, gradeFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list)
}

// Update godoc
// @Summary Update a grade value
// @Description Teachers may write inside their active load scopes, admins anywhere
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security ApiKeyAuth
// @Router /grades [post]
func (h *GradeHandler) Update(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Grade id and grade_value required"))
		return
	}

	grade, err := h.service.Update(c.Request.Context(), principal, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(c.Request.Context(), "grades:*")
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Grade updated successfully", "grade": grade})
}

// Export godoc
// @Summary Export visible grades
// @Description Download the filtered grade sheet as CSV or PDF
// @Tags Grades
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security ApiKeyAuth
// @Router /grades/export [get]
func (h *GradeHandler) Export(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	result, err := h.export.GradeSheet(c.Request.Context(), principal, gradeFilterFromQuery(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func gradeFilterFromQuery(c *gin.Context) models.GradeFilter {
	return models.GradeFilter{
		SchoolYearID: c.Query("school_year_id"),
		Semester:     c.Query("semester"),
		ProgramCode:  c.Query("program_code"),
		YearLevel:    c.Query("year_level"),
		Section:      c.Query("section"),
		CourseID:     c.Query("course_id"),
		TeacherID:    c.Query("teacher_id"),
	}
}
