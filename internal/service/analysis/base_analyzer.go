package analysis

import (
	"context"
	"fmt"
	"time"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
)

// HTTPBaseAnalyzer calls the external base analysis service. The base score
// is mandatory for every request, so transient failures get a bounded retry.
type HTTPBaseAnalyzer struct {
	api      *apiClient
	attempts int
}

func NewHTTPBaseAnalyzer(baseURL string, timeout time.Duration, attempts int) *HTTPBaseAnalyzer {
	if attempts <= 0 {
		attempts = 2
	}
	return &HTTPBaseAnalyzer{api: newAPIClient(baseURL, timeout), attempts: attempts}
}

type analyzeReq struct {
	Instrument string   `json:"instrument"`
	Depth      string   `json:"depth,omitempty"`
	Factors    []string `json:"factors,omitempty"`
}

type analyzeResp struct {
	Score     float64            `json:"score"`
	SubScores struct {
		Technical   float64 `json:"technical"`
		Fundamental float64 `json:"fundamental"`
		Sentiment   float64 `json:"sentiment"`
		Momentum    float64 `json:"momentum"`
		Value       float64 `json:"value"`
		Quality     float64 `json:"quality"`
	} `json:"sub_scores"`
	Factors map[string]float64 `json:"factors"`
}

func (s *HTTPBaseAnalyzer) Analyze(ctx context.Context, instrument string, opts models.AnalysisOptions) (*models.BaseAnalysisResult, error) {
	var ar analyzeResp
	req := analyzeReq{Instrument: instrument, Depth: opts.Depth, Factors: opts.Factors}
	if err := s.api.postJSONWithRetry(ctx, "/analyze", req, &ar, s.attempts); err != nil {
		return nil, fmt.Errorf("post analyze: %w", err)
	}

	return &models.BaseAnalysisResult{
		Instrument: instrument,
		Score:      ar.Score,
		SubScores: models.SubScores{
			Technical:   ar.SubScores.Technical,
			Fundamental: ar.SubScores.Fundamental,
			Sentiment:   ar.SubScores.Sentiment,
			Momentum:    ar.SubScores.Momentum,
			Value:       ar.SubScores.Value,
			Quality:     ar.SubScores.Quality,
		},
		Factors:     ar.Factors,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

var _ domsvc.BaseAnalysisProvider = (*HTTPBaseAnalyzer)(nil)
