package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/neo/passwordanalyzer/internal/logging"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "RequestID"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status     int       `json:"status"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Path       string    `json:"path"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	DevMessage string    `json:"-"` // For logging only, not sent to client
}

// ErrorHandler renders the last error recorded with c.Error as an ErrorResponse.
// A string set as the error's meta becomes the client-facing message. Error text
// is only exposed when development is true.
func ErrorHandler(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		err := last.Err
		status := c.Writer.Status()
		if status < 400 {
			status = http.StatusInternalServerError
		}

		errorResponse := ErrorResponse{
			Status:    status,
			Message:   "An error occurred while processing your request",
			Path:      c.Request.URL.Path,
			Timestamp: time.Now(),
			RequestID: c.GetString(RequestIDKey),
		}
		if message, ok := last.Meta.(string); ok && message != "" {
			errorResponse.Message = message
		}

		if development {
			errorResponse.Details = err.Error()
			errorResponse.DevMessage = string(debug.Stack())
		}

		logging.Error("Request failed", map[string]interface{}{
			"path":       errorResponse.Path,
			"request_id": errorResponse.RequestID,
			"status":     status,
			"error":      err.Error(),
		})

		// A status may already be flushed, but the body must not have started
		if c.Writer.Size() > 0 {
			return
		}
		c.JSON(status, gin.H{"error": errorResponse})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggingMiddleware logs all requests. Request bodies are never logged.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logging.LogHTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			map[string]interface{}{
				"request_id": c.GetString(RequestIDKey),
				"client_ip":  c.ClientIP(),
			},
		)
	}
}

// SecurityHeadersMiddleware keeps responses containing password digests out of caches and frames
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.Error("Recovered from panic", map[string]interface{}{
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(RequestIDKey),
					"panic":      fmt.Sprintf("%v", err),
					"stack":      string(debug.Stack()),
				})

				errorResponse := ErrorResponse{
					Status:    http.StatusInternalServerError,
					Message:   "An unexpected error occurred",
					Path:      c.Request.URL.Path,
					Timestamp: time.Now(),
					RequestID: c.GetString(RequestIDKey),
				}

				if development {
					errorResponse.Details = fmt.Sprintf("%v", err)
					errorResponse.DevMessage = string(debug.Stack())
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorResponse})
			}
		}()
		c.Next()
	}
}
