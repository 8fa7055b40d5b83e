package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
	"github.com/marcus-medeiros/analise-bess/internal/domain/viability"
	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	curveSvc    loadcurve.Service
	scenarioSvc scenario.Service
	regions     *regional.Table
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(curveSvc loadcurve.Service, scenarioSvc scenario.Service, regions *regional.Table, logger *slog.Logger) *Handler {
	return &Handler{
		curveSvc:    curveSvc,
		scenarioSvc: scenarioSvc,
		regions:     regions,
		logger:      logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Profiles lists the built-in load profile archetypes.
func (h *Handler) Profiles(c *gin.Context) {
	window := h.curveSvc.PeakWindow()
	c.JSON(http.StatusOK, gin.H{
		"profiles":  h.curveSvc.Profiles(c.Request.Context()),
		"peakHours": window.Hours(),
	})
}

// BuildLoadCurve reconciles a monthly consumption into a 24 hour curve.
func (h *Handler) BuildLoadCurve(c *gin.Context) {
	var req loadcurve.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.curveSvc.Build(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "load_curve_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Regions lists the states available for analysis.
func (h *Handler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.regions.States()})
}

// Region returns a single state by UF code or name.
func (h *Handler) Region(c *gin.Context) {
	state, ok := h.regions.Lookup(c.Param("state"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, "unknown state "+c.Param("state"), nil))
		return
	}
	c.JSON(http.StatusOK, state)
}

// Analyze runs a one-off analysis without saving a scenario.
func (h *Handler) Analyze(c *gin.Context) {
	var req scenario.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.scenarioSvc.Evaluate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "analysis_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateScenario saves a named scenario.
func (h *Handler) CreateScenario(c *gin.Context) {
	var req scenario.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	sc, err := h.scenarioSvc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "scenario_failed"))
		return
	}

	c.JSON(http.StatusCreated, sc)
}

// ListScenarios returns the most recent scenarios.
func (h *Handler) ListScenarios(c *gin.Context) {
	items, err := h.scenarioSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "scenario_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetScenario returns a saved scenario.
func (h *Handler) GetScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	sc, err := h.scenarioSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "scenario_failed"))
		return
	}
	c.JSON(http.StatusOK, sc)
}

// AnalyzeScenario runs the analysis for a saved scenario. The body is optional.
func (h *Handler) AnalyzeScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var body struct {
		Investment *scenario.InvestmentInput `json:"investment"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	resp, err := h.scenarioSvc.Analyze(c.Request.Context(), id, body.Investment)
	if err != nil {
		abortWithError(c, domainError(err, "analysis_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TrendingStates returns the most selected states.
func (h *Handler) TrendingStates(c *gin.Context) {
	items, err := h.scenarioSvc.TrendingStates(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "stats_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type viabilityRequest struct {
	Investment     float64   `json:"investment" binding:"required"`
	CashFlows      []float64 `json:"cashFlows"`
	AnnualCashFlow float64   `json:"annualCashFlow"`
	Years          int       `json:"years"`
	DiscountRate   float64   `json:"discountRate"`
}

// Viability evaluates an explicit cash flow series.
func (h *Handler) Viability(c *gin.Context) {
	var req viabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	flows := req.CashFlows
	if len(flows) == 0 && req.Years > 0 {
		flows = viability.UniformCashFlows(req.AnnualCashFlow, req.Years)
	}

	result, err := viability.Evaluate(viability.Input{Investment: req.Investment, CashFlows: flows, DiscountRate: req.DiscountRate})
	if err != nil {
		abortWithError(c, domainError(err, "viability_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

func scenarioID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "id must be a UUID", err))
		return uuid.Nil, false
	}
	return id, true
}

// domainError maps application error codes to HTTP statuses.
func domainError(err error, fallback string) *HTTPError {
	switch code := apperrors.CodeOf(err); code {
	case apperrors.CodeInvalidInput, apperrors.CodeInvalidArchetype:
		return NewHTTPError(http.StatusBadRequest, code, errMessage(err), err)
	case apperrors.CodeNotFound:
		return NewHTTPError(http.StatusNotFound, code, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, fallback, "request could not be processed", err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
