package analysis

import (
	"context"
	"fmt"
	"time"

	xhttp "InvestScore/pkg/http"
)

// apiClient is the shared JSON-over-HTTP foundation for provider adapters.
type apiClient struct {
	baseURL string
	client  *xhttp.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &apiClient{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// postJSON posts the payload to `path` under baseURL and decodes JSON into dest.
func (c *apiClient) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if c.client == nil || c.baseURL == "" {
		return fmt.Errorf("analysis http client not initialized")
	}
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// postJSONWithRetry posts JSON with up to `attempts` tries for transient errors.
func (c *apiClient) postJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return c.postJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = c.postJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
