package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"InvestScore/internal/domain/models"
	"InvestScore/internal/service/metrics"
	"InvestScore/internal/service/ratelimit"
	"InvestScore/internal/usecase"
	xhttp "InvestScore/pkg/http"
	applogger "InvestScore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Selector is the scoring capability the handler needs; satisfied by
// *usecase.Orchestrator and by stubs in tests.
type Selector interface {
	Select(ctx context.Context, req models.SelectionRequest) (*models.SelectionResponse, error)
}

// HealthCheck is a named best-effort reachability probe for a backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SelectHandler exposes the selection engine over HTTP.
type SelectHandler struct {
	logger   *applogger.Logger
	selector Selector
	recorder *usecase.ScoreRecorder
	rl       *ratelimit.Limiter
	checks   []HealthCheck
}

func NewSelectHandler(logger *applogger.Logger, selector Selector, recorder *usecase.ScoreRecorder, checks ...HealthCheck) *SelectHandler {
	metrics.Register()
	return &SelectHandler{
		logger:   logger,
		selector: selector,
		recorder: recorder,
		rl:       ratelimit.New(),
		checks:   checks,
	}
}

func (h *SelectHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/select", h.Select)
	e.GET("/healthz", h.Healthz)
}

func (h *SelectHandler) Select(c echo.Context) error {
	req := &models.SelectHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":select", 10, 5) {
		h.logger.Warn("select rate_limited", applogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c)
	}

	sel := models.SelectionRequest{
		Instrument: req.Instrument,
		IncludeML:  req.IncludeML,
		Options: models.AnalysisOptions{
			Depth:   req.Depth,
			Factors: req.Factors,
		},
	}
	if req.IncludeML {
		sel.Horizon = models.Horizon(req.Horizon)
	}

	resp, err := h.selector.Select(c.Request().Context(), sel)
	if err != nil {
		return h.errorResponse(c, err)
	}

	if h.recorder != nil {
		h.recorder.Record(resp)
	}
	return xhttp.SuccessResponse(c, resp)
}

// Healthz reports reachability of the backing services. Best-effort: a broken
// sink degrades the report but never fails the endpoint.
func (h *SelectHandler) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	report := map[string]string{"status": "ok"}
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			report[hc.Name] = "unreachable"
			report["status"] = "degraded"
			h.logger.Warn("healthz check failed",
				applogger.String("check", hc.Name),
				applogger.Error(err),
			)
		} else {
			report[hc.Name] = "ok"
		}
	}
	return c.JSON(http.StatusOK, report)
}

func (h *SelectHandler) errorResponse(c echo.Context, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INVALID",
			Field:   verr.Field,
			Message: verr.Error(),
		}})
	}

	var uerr *models.UpstreamError
	if errors.As(err, &uerr) {
		h.logger.Error("select upstream failure", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("analysis provider unavailable").WithError(err))
	}

	h.logger.Error("select error", applogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
