package judge

import (
	"context"
	"sync"
)

// StubClient is an in-process judge for tests and local runs. OnJudge, if
// set, scripts the outcome; otherwise every test passes. The call counter
// lets tests assert that rejected submissions never reached the judge.
type StubClient struct {
	mu    sync.Mutex
	calls int

	OnJudge func(ctx context.Context, req Request) ([]TestResult, error)
}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (s *StubClient) Judge(ctx context.Context, req Request) ([]TestResult, error) {
	s.mu.Lock()
	s.calls++
	onJudge := s.OnJudge
	s.mu.Unlock()

	if onJudge != nil {
		return onJudge(ctx, req)
	}

	results := make([]TestResult, len(req.Tests))
	for i := range req.Tests {
		results[i] = TestResult{
			TestID:    i + 1,
			Verdict:   VerdictAC,
			RuntimeMs: 1,
			MemoryKiB: 256,
		}
	}
	return results, nil
}

// Calls reports how many times the judge was invoked.
func (s *StubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
