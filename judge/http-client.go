package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HttpClient talks to an online-judge service over a single blocking
// POST. The judge runs every test and replies with the ordered verdict
// list in one response body.
type HttpClient struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

type httpJudgeResponse struct {
	SubmissionID string       `json:"submission_id"`
	Results      []TestResult `json:"results"`
}

func NewHttpClient(endpoint string, apiKey string, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HttpClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: timeout},
	}
}

func (c *HttpClient) Judge(ctx context.Context, req Request) ([]TestResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, ErrJudgeUnavailable().SetDebug(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, ErrJudgeRejected().SetDebug(
			fmt.Errorf("judge replied %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrJudgeUnavailable().SetDebug(
			fmt.Errorf("judge replied %d", resp.StatusCode))
	}

	var parsed httpJudgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ErrJudgeUnavailable().SetDebug(
			fmt.Errorf("failed to decode judge response: %w", err))
	}
	for _, r := range parsed.Results {
		if !KnownVerdict(r.Verdict) {
			return nil, ErrJudgeUnavailable().SetDebug(
				fmt.Errorf("judge sent unknown verdict %q", r.Verdict))
		}
	}
	return parsed.Results, nil
}
