package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/models"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// Ctx key and helpers for the authenticated profile id.
// Unexported type avoids collisions with other packages.

type ctxKey string

const profileIDKey ctxKey = "profile_id"

func ContextWithProfileID(ctx context.Context, profileID int64) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

func ProfileIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(profileIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CORS allows the browser client to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger emits one structured log line per failed request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		profileID, exists := c.Get("profile_id")

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if exists {
			logFields = append(logFields, "profile_id", profileID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		}
	}
}

// Recovery turns panics into 500 responses with a detailed log entry.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates a profile by HTTP Basic Auth, checking the Valkey
// auth hash first and falling back to the database.
func BasicAuth(profileRepo *repository.ProfileRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", "Basic realm=\"Restricted\"")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()

		hash := sha256.Sum256([]byte(password))
		passwordHash := fmt.Sprintf("%x", hash)

		var profileID int64
		var profile *models.Profile
		var err error

		if valkeyClient != nil {
			profileID, err = valkeyClient.GetProfileIDByAuth(ctx, email, passwordHash)
			if err == nil {
				c.Set("profile_id", profileID)
				c.Request = c.Request.WithContext(ContextWithProfileID(c.Request.Context(), profileID))
				c.Next()
				return
			}
		}

		profile, err = profileRepo.GetByEmail(ctx, email)
		if err != nil || profile == nil || !profile.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if profile.PasswordHash == "" || passwordHash != profile.PasswordHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if valkeyClient != nil {
			if err := valkeyClient.SetProfileAuth(ctx, email, passwordHash, profile.ID); err != nil {
				slog.Warn("Failed to cache auth entry", "error", err)
			}
		}

		c.Set("profile_id", profile.ID)
		c.Request = c.Request.WithContext(ContextWithProfileID(c.Request.Context(), profile.ID))

		c.Next()
	}
}
