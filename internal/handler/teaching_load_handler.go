package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// TeachingLoadHandler wires HTTP endpoints to the teaching load service.
type TeachingLoadHandler struct {
	service *service.TeachingLoadService
	cache   *service.CacheService
}

// NewTeachingLoadHandler creates a new handler.
func NewTeachingLoadHandler(svc *service.TeachingLoadService, cache *service.CacheService) *TeachingLoadHandler {
	return &TeachingLoadHandler{service: svc, cache: cache}
}

// List godoc
// @Summary List teaching loads
// @Description Teachers see their active loads, admins all active loads
// @Tags TeachingLoads
// @Produce json
// @Param school_year_id query string false "School year filter"
// @Param school_level query string false "School level filter"
// @Param program_code query string false "Program filter"
// @Param year_level query string false "Year level filter"
// @Param section query string false "Section filter"
// @Param teacher_id query string false "Teacher filter (admin)"
// @Param course_id query string false "Course filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} models.TeachingLoad
// @Failure 401 {object} map[string]string
// @Security ApiKeyAuth
// @Router /teaching-loads [get]
func (h *TeachingLoadHandler) List(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	filter := models.LoadFilter{
		SchoolYearID: c.Query("school_year_id"),
		SchoolLevel:  c.Query("school_level"),
		ProgramCode:  c.Query("program_code"),
		YearLevel:    c.Query("year_level"),
		Section:      c.Query("section"),
		TeacherID:    c.Query("teacher_id"),
		CourseID:     c.Query("course_id"),
	}
	page := models.Pagination{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}

	loads, err := h.service.List(c.Request.Context(), principal, filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, loads)
}

// Create godoc
// @Summary Create a teaching load
// @Description Admin-only creation of a teaching load assignment
// @Tags TeachingLoads
// @Accept json
// @Produce json
// @Param payload body service.CreateLoadRequest true "Load payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security ApiKeyAuth
// @Router /teaching-loads [post]
func (h *TeachingLoadHandler) Create(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	var req service.CreateLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "All fields required"))
		return
	}

	load, err := h.service.Create(c.Request.Context(), principal, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateLists(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "Teaching load created", "load": load})
}

// Update godoc
// @Summary Update a teaching load
// @Description Admin-only partial update of a teaching load
// @Tags TeachingLoads
// @Accept json
// @Produce json
// @Param id path int true "Load id"
// @Param payload body service.UpdateLoadRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security ApiKeyAuth
// @Router /teaching-loads/{id} [put]
func (h *TeachingLoadHandler) Update(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Teaching load not found"))
		return
	}

	var req service.UpdateLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid payload"))
		return
	}

	load, err := h.service.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateLists(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "Teaching load updated", "load": load})
}

// Deactivate godoc
// @Summary Deactivate a teaching load
// @Description Admin-only soft delete, the load row is retained
// @Tags TeachingLoads
// @Produce json
// @Param id path int true "Load id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security ApiKeyAuth
// @Router /teaching-loads/{id} [delete]
func (h *TeachingLoadHandler) Deactivate(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrMissingAPIKey)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Teaching load not found"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateLists(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "Teaching load deactivated"})
}

func (h *TeachingLoadHandler) invalidateLists(c *gin.Context) {
	if h.cache == nil {
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), "teaching-loads:*")
	_ = h.cache.Invalidate(c.Request.Context(), "grades:*")
}

func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
