package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InvestScore/internal/domain/models"
	applogger "InvestScore/pkg/logger"
)

type stubSelector struct {
	resp *models.SelectionResponse
	err  error
	got  models.SelectionRequest
}

func (s *stubSelector) Select(_ context.Context, req models.SelectionRequest) (*models.SelectionResponse, error) {
	s.got = req
	return s.resp, s.err
}

func performSelect(t *testing.T, h *SelectHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/api/select", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestSelectHandler_Success(t *testing.T) {
	sel := &stubSelector{resp: &models.SelectionResponse{
		Instrument: "AAPL",
		Horizon:    models.Horizon1Week,
		Fusion:     models.FusionResult{FinalScore: 73.0, BaseScore: 70.0},
	}}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL","include_ml":true,"horizon":"1w"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusOK, envelope["status"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "AAPL", data["instrument"])
	fusion := data["fusion"].(map[string]interface{})
	assert.EqualValues(t, 73.0, fusion["final_score"])

	// The transport request was translated faithfully.
	assert.Equal(t, "AAPL", sel.got.Instrument)
	assert.True(t, sel.got.IncludeML)
	assert.Equal(t, models.Horizon1Week, sel.got.Horizon)
	assert.Equal(t, "standard", sel.got.Options.Depth)
}

func TestSelectHandler_HorizonDroppedWithoutML(t *testing.T) {
	sel := &stubSelector{resp: &models.SelectionResponse{Instrument: "AAPL"}}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL","horizon":"1d"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sel.got.IncludeML)
	assert.Empty(t, string(sel.got.Horizon))
}

func TestSelectHandler_MissingInstrument(t *testing.T) {
	sel := &stubSelector{}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"include_ml":true,"horizon":"1w"}`)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusBadRequest, envelope["status"])
	assert.Empty(t, sel.got.Instrument, "selector must not be reached")
}

func TestSelectHandler_UnknownHorizonRejectedAtTransport(t *testing.T) {
	sel := &stubSelector{}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL","include_ml":true,"horizon":"6h"}`)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusBadRequest, envelope["status"])
}

func TestSelectHandler_ValidationErrorFromCore(t *testing.T) {
	sel := &stubSelector{err: models.NewValidationError("horizon", "is required with include_ml")}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL","include_ml":true,"horizon":"1w"}`)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusBadRequest, envelope["status"])
}

func TestSelectHandler_UpstreamFailureMapsTo502(t *testing.T) {
	sel := &stubSelector{err: &models.UpstreamError{Provider: "base_analysis", Err: errors.New("connection refused")}}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL"}`)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusBadGateway, envelope["status"])
}

func TestSelectHandler_UnknownErrorMapsTo500(t *testing.T) {
	sel := &stubSelector{err: errors.New("boom")}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	rec := performSelect(t, h, `{"instrument":"AAPL"}`)

	envelope := decodeEnvelope(t, rec)
	assert.EqualValues(t, http.StatusInternalServerError, envelope["status"])
}

func TestSelectHandler_RateLimitKicksIn(t *testing.T) {
	sel := &stubSelector{resp: &models.SelectionResponse{Instrument: "AAPL"}}
	h := NewSelectHandler(applogger.Nop(), sel, nil)

	limited := 0
	for i := 0; i < 15; i++ {
		rec := performSelect(t, h, `{"instrument":"AAPL"}`)
		envelope := decodeEnvelope(t, rec)
		if envelope["status"] == float64(http.StatusTooManyRequests) {
			limited++
		}
	}
	assert.Greater(t, limited, 0, "burst above bucket capacity must be limited")
}

func performHealthz(t *testing.T, h *SelectHandler) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSelectHandler_Healthz_NoChecks(t *testing.T) {
	h := NewSelectHandler(applogger.Nop(), &stubSelector{}, nil)

	rec := performHealthz(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeHealthz(t, rec)
	assert.Equal(t, "ok", report["status"])
}

func decodeHealthz(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var report map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	return report
}

func TestSelectHandler_Healthz_ReportsBackendReachability(t *testing.T) {
	h := NewSelectHandler(applogger.Nop(), &stubSelector{}, nil,
		HealthCheck{Name: "cache", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "clickhouse", Check: func(context.Context) error { return nil }},
	)

	rec := performHealthz(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeHealthz(t, rec)
	assert.Equal(t, "ok", report["status"])
	assert.Equal(t, "ok", report["cache"])
	assert.Equal(t, "ok", report["clickhouse"])
}

func TestSelectHandler_Healthz_BrokenBackendDegradesReport(t *testing.T) {
	h := NewSelectHandler(applogger.Nop(), &stubSelector{}, nil,
		HealthCheck{Name: "cache", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "kafka", Check: func(context.Context) error { return errors.New("broker down") }},
	)

	rec := performHealthz(t, h)

	// Best-effort: a broken sink degrades the report, never the endpoint.
	assert.Equal(t, http.StatusOK, rec.Code)
	report := decodeHealthz(t, rec)
	assert.Equal(t, "degraded", report["status"])
	assert.Equal(t, "ok", report["cache"])
	assert.Equal(t, "unreachable", report["kafka"])
}
