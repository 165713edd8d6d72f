package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getFeatureFlagsHandler returns the current feature flags
func (s *Server) getFeatureFlagsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"feature_flags": s.featureFlags.GetFlags(),
	})
}

// requireFlag answers 404 unless enabled reports the flag as on
func (s *Server) requireFlag(enabled func(FeatureFlags) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled(s.featureFlags.GetFlags()) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Next()
	}
}

// setupFeatureFlagRoutes sets up the feature flag routes
func (s *Server) setupFeatureFlagRoutes() {
	featureGroup := s.router.Group("/api/features")
	{
		featureGroup.GET("", s.getFeatureFlagsHandler)
	}
}
