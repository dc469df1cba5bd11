package judge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorstVerdictFullPass(t *testing.T) {
	results := []judge.TestResult{
		{TestID: 1, Verdict: judge.VerdictAC},
		{TestID: 2, Verdict: judge.VerdictAC},
		{TestID: 3, Verdict: judge.VerdictAC},
	}
	worst, ok := judge.WorstVerdict(results)
	require.True(t, ok)
	assert.Equal(t, judge.VerdictAC, worst)
}

func TestWorstVerdictPicksMostSevere(t *testing.T) {
	results := []judge.TestResult{
		{TestID: 1, Verdict: judge.VerdictAC},
		{TestID: 2, Verdict: judge.VerdictTLE},
		{TestID: 3, Verdict: judge.VerdictWA},
	}
	worst, ok := judge.WorstVerdict(results)
	require.True(t, ok)
	assert.Equal(t, judge.VerdictTLE, worst)

	results = append(results, judge.TestResult{TestID: 4, Verdict: judge.VerdictRE})
	worst, ok = judge.WorstVerdict(results)
	require.True(t, ok)
	assert.Equal(t, judge.VerdictRE, worst)

	results = append(results, judge.TestResult{TestID: 5, Verdict: judge.VerdictCE})
	worst, ok = judge.WorstVerdict(results)
	require.True(t, ok)
	assert.Equal(t, judge.VerdictCE, worst)
}

func TestWorstVerdictEmpty(t *testing.T) {
	_, ok := judge.WorstVerdict(nil)
	assert.False(t, ok)
}

type flakyClient struct {
	failures int
	calls    int
	results  []judge.TestResult
	err      error
}

func (f *flakyClient) Judge(ctx context.Context, req judge.Request) ([]judge.TestResult, error) {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("connection refused")
	}
	return f.results, nil
}

func TestRetryWrapperRetriesTransportFailures(t *testing.T) {
	inner := &flakyClient{
		failures: 2,
		results:  []judge.TestResult{{TestID: 1, Verdict: judge.VerdictAC}},
	}
	client := judge.WrapRetry(inner, judge.RetryConfig{MaxAttempts: 3})

	results, err := client.Judge(context.Background(), judge.Request{SubmissionID: "s1"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryWrapperGivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyClient{failures: 10}
	client := judge.WrapRetry(inner, judge.RetryConfig{MaxAttempts: 3})

	_, err := client.Judge(context.Background(), judge.Request{SubmissionID: "s1"})
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryWrapperNeverRetriesRejections(t *testing.T) {
	inner := &flakyClient{failures: 10, err: judge.ErrJudgeRejected()}
	client := judge.WrapRetry(inner, judge.RetryConfig{MaxAttempts: 5})

	_, err := client.Judge(context.Background(), judge.Request{SubmissionID: "s1"})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)

	var svcErr *srvcerror.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, judge.ErrCodeJudgeRejected, svcErr.ErrorCode())
}

func TestRetryWrapperStopsOnCancelledContext(t *testing.T) {
	inner := &flakyClient{failures: 10}
	client := judge.WrapRetry(inner, judge.RetryConfig{MaxAttempts: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Judge(ctx, judge.Request{SubmissionID: "s1"})
	require.Error(t, err)
	assert.Equal(t, 0, inner.calls)
}

func TestStubClientCountsCalls(t *testing.T) {
	stub := judge.NewStubClient()
	assert.Equal(t, 0, stub.Calls())

	results, err := stub.Judge(context.Background(), judge.Request{
		SubmissionID: "s1",
		Tests:        make([]judge.TestFile, 3),
	})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, judge.VerdictAC, r.Verdict)
	}
	assert.Equal(t, 1, stub.Calls())
}
