package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// RequireKinds enforces that the authenticated principal is one of the given
// actor kinds.
func RequireKinds(kinds ...models.ActorKind) gin.HandlerFunc {
	allowed := make(map[models.ActorKind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrMissingAPIKey)
			c.Abort()
			return
		}
		if _, ok := allowed[principal.Kind]; !ok {
			response.Error(c, appErrors.ErrAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly restricts the route to admin principals.
func AdminOnly() gin.HandlerFunc {
	return RequireKinds(models.ActorAdmin)
}
