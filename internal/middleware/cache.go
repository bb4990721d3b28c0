package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/service"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CachedJSON serves GET responses from cache when available. Keys are scoped
// to the authenticated principal so teachers never see each other's slices.
// A hit skips the handler, so the view action is recorded here: every
// authorized read lands in the audit log whether it hit the cache or not.
func CachedJSON(cacheSvc *service.CacheService, audit *service.AuditService, action string, prefix string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheSvc == nil || !cacheSvc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheKey(c, prefix)
		var cached cachedResponse
		hit, err := cacheSvc.Get(c.Request.Context(), key, &cached)
		if err == nil && hit {
			if principal, ok := PrincipalFromContext(c); ok {
				audit.Record(c.Request.Context(), principal, action, queryAuditDetails(c))
			}
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = recorder
		c.Next()

		if recorder.Status() == http.StatusOK {
			_ = cacheSvc.Set(c.Request.Context(), key, cachedResponse{
				Status:      recorder.Status(),
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.buf.Bytes(),
			}, ttl)
		}
	}
}

// queryAuditDetails rebuilds the shape the services record for list views:
// the filter params keyed under "filters", page/limit on the top level.
func queryAuditDetails(c *gin.Context) map[string]interface{} {
	filters := map[string]string{}
	details := map[string]interface{}{}
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		switch key {
		case "page", "limit":
			if n, err := strconv.Atoi(values[0]); err == nil && n > 0 {
				details[key] = n
			}
		default:
			filters[key] = values[0]
		}
	}
	details["filters"] = filters
	return details
}

// CacheKey builds a principal-scoped cache key for the current request.
func CacheKey(c *gin.Context, prefix string) string {
	kind, id := "anonymous", 0
	if principal, ok := PrincipalFromContext(c); ok {
		kind = string(principal.Kind)
		id = principal.ID
	}
	return fmt.Sprintf("%s:%s:%d:%s", prefix, kind, id, c.Request.URL.RawQuery)
}
