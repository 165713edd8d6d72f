package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo/passwordanalyzer/internal/logging"
	"github.com/neo/passwordanalyzer/internal/strength"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexTemplate = "index.html"

// AnalyzeRequest is the body accepted by the JSON and WebSocket endpoints
type AnalyzeRequest struct {
	Password string `json:"password" form:"password"`
}

// AnalyzeResponse is returned by the JSON and WebSocket endpoints
type AnalyzeResponse struct {
	Result   strength.Result    `json:"result"`
	Estimate *strength.Estimate `json:"estimate,omitempty"`
}

// pageData feeds the index template
type pageData struct {
	Analyzed bool
	Result   strength.Result
	Items    []strength.CheckItem
	Estimate *strength.Estimate
	MaxScore int
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// analyze runs the evaluator and, when enabled, the estimator
func (s *Server) analyze(source, password string) AnalyzeResponse {
	response := AnalyzeResponse{Result: strength.Evaluate(password)}
	if s.featureFlags.GetFlags().EnableEstimate {
		estimate := strength.EstimateStrength(password)
		response.Estimate = &estimate
	}

	logging.LogAnalysisEvent(source, response.Result.Score, response.Result.Label.String(), nil)
	return response
}

// handleIndex renders the empty form
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, pageData{MaxScore: strength.MaxScore})
}

// handleAnalyzeForm renders the form with the evaluation of the submitted password
func (s *Server) handleAnalyzeForm(c *gin.Context) {
	// A missing field is analyzed as the empty password
	password := c.PostForm("password")

	response := s.analyze("form", password)
	c.HTML(http.StatusOK, indexTemplate, pageData{
		Analyzed: true,
		Result:   response.Result,
		Items:    response.Result.Checks.Items(),
		Estimate: response.Estimate,
		MaxScore: strength.MaxScore,
	})
}

// handleAnalyzeAPI evaluates a JSON or form encoded password
func (s *Server) handleAnalyzeAPI(c *gin.Context) {
	var req AnalyzeRequest
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind).SetMeta("Invalid request body")
			c.Status(http.StatusBadRequest)
			c.Abort()
			return
		}
	} else {
		req.Password = c.PostForm("password")
	}

	c.JSON(http.StatusOK, s.analyze("api", req.Password))
}

// handleHealth reports liveness
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
