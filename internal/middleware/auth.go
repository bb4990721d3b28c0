package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the authenticated principal.
const ContextPrincipalKey = "currentPrincipal"

// APIKey protects routes by requiring a valid x-api-key header.
func APIKey(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authService.Authenticate(c.Request.Context(), c.GetHeader("x-api-key"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the principal attached by APIKey, if any.
func PrincipalFromContext(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(*models.Principal)
	if !ok || principal == nil {
		return models.Principal{}, false
	}
	return *principal, true
}
