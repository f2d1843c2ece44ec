package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InvestScore/internal/domain/models"
)

func TestHTTPBaseAnalyzer_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		var req analyzeReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AAPL", req.Instrument)
		assert.Equal(t, "deep", req.Depth)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"score": 71.3,
			"sub_scores": map[string]float64{
				"technical":   68,
				"fundamental": 75,
				"sentiment":   70,
			},
			"factors": map[string]float64{"pe_ratio": 24.1},
		})
	}))
	defer srv.Close()

	a := NewHTTPBaseAnalyzer(srv.URL, time.Second, 1)
	res, err := a.Analyze(context.Background(), "AAPL", models.AnalysisOptions{Depth: "deep"})

	require.NoError(t, err)
	assert.Equal(t, 71.3, res.Score)
	assert.Equal(t, 68.0, res.SubScores.Technical)
	assert.Equal(t, 75.0, res.SubScores.Fundamental)
	assert.Equal(t, 24.1, res.Factors["pe_ratio"])
	assert.Equal(t, "AAPL", res.Instrument)
}

func TestHTTPBaseAnalyzer_RetriesTransientFailure(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"score": 60.0})
	}))
	defer srv.Close()

	a := NewHTTPBaseAnalyzer(srv.URL, time.Second, 2)
	res, err := a.Analyze(context.Background(), "AAPL", models.AnalysisOptions{})

	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Score)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestHTTPBaseAnalyzer_ExhaustedRetriesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewHTTPBaseAnalyzer(srv.URL, time.Second, 2)
	_, err := a.Analyze(context.Background(), "AAPL", models.AnalysisOptions{})

	assert.Error(t, err)
}

func TestHTTPBaseAnalyzer_NoBackoffAfterFinalAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewHTTPBaseAnalyzer(srv.URL, time.Second, 2)

	// Two attempts mean exactly one 50ms backoff between them; the second
	// failure must return immediately.
	start := time.Now()
	_, err := a.Analyze(context.Background(), "AAPL", models.AnalysisOptions{})

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 120*time.Millisecond)
}

func TestHTTPPredictor_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req predictReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AAPL", req.Instrument)
		assert.Equal(t, "1w", req.Horizon)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"predicted_score": 82.4,
			"confidence":      0.91,
			"model_version":   "v3",
		})
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second)
	pred, err := p.Predict(context.Background(), "AAPL", models.Horizon1Week)

	require.NoError(t, err)
	assert.Equal(t, 82.4, pred.PredictedScore)
	assert.Equal(t, 0.91, pred.Confidence)
	assert.Equal(t, "v3", pred.ModelVersion)
	assert.Equal(t, models.Horizon1Week, pred.Horizon)
}

func TestHTTPPredictor_HonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"predicted_score": 50.0})
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Predict(ctx, "AAPL", models.Horizon1Week)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestHTTPPredictor_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second)
	_, err := p.Predict(context.Background(), "AAPL", models.Horizon1Week)

	assert.Error(t, err)
}
