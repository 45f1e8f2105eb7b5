package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/matchbox/internal/core"
	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
	"github.com/agenthands/matchbox/internal/driver"
)

const runIDHeader = "X-Run-ID"

type Server struct {
	Engine *core.Engine
	logger *zap.Logger
}

func NewServer(engine *core.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Engine: engine, logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger))

	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/solve", s.Solve)
	r.POST("/analyze", s.Analyze)
	r.POST("/probabilities", s.Probabilities)

	r.POST("/seasons", s.SaveSeason)
	r.GET("/seasons/:id/solve", s.SolveStored)
	r.GET("/seasons/:id/analysis", s.AnalyzeStored)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type SolveResponse struct {
	RunID       string         `json:"runId"`
	SeasonID    model.ID       `json:"seasonId"`
	Fingerprint string         `json:"fingerprint"`
	Cached      bool           `json:"cached"`
	Result      *solver.Result `json:"result"`
}

type AnalysisResponse struct {
	RunID    string          `json:"runId"`
	Status   solver.Status   `json:"status"`
	Analysis *model.Analysis `json:"analysis"`
}

type ProbabilitiesResponse struct {
	RunID         string                  `json:"runId"`
	Status        solver.Status           `json:"status"`
	Solutions     int                     `json:"solutions"`
	Probabilities []model.PairProbability `json:"probabilities"`
}

func (s *Server) Solve(c *gin.Context) {
	if report, ok := s.evaluateBody(c); ok {
		c.JSON(http.StatusOK, solveResponse(report))
	}
}

func (s *Server) Analyze(c *gin.Context) {
	if report, ok := s.evaluateBody(c); ok {
		c.JSON(http.StatusOK, analysisResponse(report))
	}
}

func (s *Server) Probabilities(c *gin.Context) {
	if report, ok := s.evaluateBody(c); ok {
		c.JSON(http.StatusOK, ProbabilitiesResponse{
			RunID:         report.RunID,
			Status:        report.Result.Status,
			Solutions:     len(report.Result.Solutions),
			Probabilities: report.Probabilities,
		})
	}
}

func (s *Server) SaveSeason(c *gin.Context) {
	if s.Engine.Store == nil {
		RespondError(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "season store is not configured", "")
		return
	}
	var season model.Season
	if err := c.ShouldBindJSON(&season); err != nil {
		BadRequest(c, "invalid season: "+err.Error())
		return
	}
	if err := solver.Validate(&season); err != nil {
		s.respondEvaluateError(c, err)
		return
	}
	if err := s.Engine.Store.SaveSeason(c.Request.Context(), &season); err != nil {
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to save season", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": season.ID})
}

func (s *Server) SolveStored(c *gin.Context) {
	if report, ok := s.evaluateStored(c); ok {
		c.JSON(http.StatusOK, solveResponse(report))
	}
}

func (s *Server) AnalyzeStored(c *gin.Context) {
	if report, ok := s.evaluateStored(c); ok {
		c.JSON(http.StatusOK, analysisResponse(report))
	}
}

func (s *Server) evaluateBody(c *gin.Context) (*core.Report, bool) {
	var season model.Season
	if err := c.ShouldBindJSON(&season); err != nil {
		BadRequest(c, "invalid season: "+err.Error())
		return nil, false
	}
	report, err := s.Engine.Evaluate(c.Request.Context(), &season)
	if err != nil {
		s.respondEvaluateError(c, err)
		return nil, false
	}
	c.Header(runIDHeader, report.RunID)
	return report, true
}

func (s *Server) evaluateStored(c *gin.Context) (*core.Report, bool) {
	id := model.CanonicalID(c.Param("id"))
	report, err := s.Engine.EvaluateStored(c.Request.Context(), id)
	if err != nil {
		s.respondEvaluateError(c, err)
		return nil, false
	}
	c.Header(runIDHeader, report.RunID)
	return report, true
}

func (s *Server) respondEvaluateError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *solver.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondError(c, http.StatusBadRequest, ErrCodeMalformedEvidence, verr.Message, string(verr.Kind))
	case solver.IsMalformed(err):
		RespondError(c, http.StatusBadRequest, ErrCodeMalformedEvidence, err.Error(), "")
	case errors.Is(err, solver.ErrTooManyAssignments):
		RespondError(c, http.StatusUnprocessableEntity, ErrCodeTooManyPairings,
			"evidence is too weak to enumerate all pairings", err.Error())
	case errors.Is(err, driver.ErrSeasonNotFound):
		RespondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error(), "")
	case errors.Is(err, core.ErrNoStore):
		RespondError(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "season store is not configured", "")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		RespondError(c, http.StatusServiceUnavailable, ErrCodeTimeout, "solve did not finish in time", "")
	default:
		RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to evaluate season", "")
	}
}

func solveResponse(r *core.Report) SolveResponse {
	return SolveResponse{
		RunID:       r.RunID,
		SeasonID:    r.SeasonID,
		Fingerprint: r.Fingerprint,
		Cached:      r.Cached,
		Result:      r.Result,
	}
}

func analysisResponse(r *core.Report) AnalysisResponse {
	return AnalysisResponse{RunID: r.RunID, Status: r.Result.Status, Analysis: r.Analysis}
}
