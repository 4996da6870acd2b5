package middleware

import (
	"face-analysis/tools"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	apiAuthUsernameEnvName = "FACE_ANALYSIS__API_USER"
	apiAuthPasswordEnvName = "FACE_ANALYSIS__API_PASS"
)

type AuthMiddleware struct {
	username string
	password string
}

func NewAuthMiddleware() *AuthMiddleware {
	tools.CheckEnvs(apiAuthUsernameEnvName, apiAuthPasswordEnvName)

	return &AuthMiddleware{
		username: os.Getenv(apiAuthUsernameEnvName),
		password: os.Getenv(apiAuthPasswordEnvName),
	}
}

func (m *AuthMiddleware) BasicAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != m.username || pass != m.password {
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// RequestIdMiddleware tags every request with an id for log correlation,
// keeping a caller-provided X-Request-Id when present.
func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader("X-Request-Id")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set("requestId", requestId)
		c.Header("X-Request-Id", requestId)
		c.Next()
	}
}

// CorsMiddleware allows browser clients to call the analysis endpoints
// from any origin. Uploads use multipart forms, so content headers stay open.
func CorsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
