package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	audit   *service.AuditService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, audit *service.AuditService) *AuthHandler {
	return &AuthHandler{service: svc, audit: audit}
}

// LoginRequest is the login payload. The key travels in the body here; the
// protected routes take it from the x-api-key header instead.
type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// Login godoc
// @Summary Authenticate with an API key
// @Description Resolve an API key to a teacher or admin profile
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	// An absent or malformed body resolves to an empty key, which the
	// service rejects as a 400.
	var req LoginRequest
	_ = c.ShouldBindJSON(&req)

	profile, err := h.service.Login(c.Request.Context(), req.APIKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	principal := models.Principal{Kind: profile.Type, ID: profile.ID, Name: profile.Name}
	h.audit.Record(c.Request.Context(), principal, models.AuditActionLogin, nil)

	response.JSON(c, http.StatusOK, gin.H{"user": profile})
}
