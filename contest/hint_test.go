package contest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/ledger"
	"github.com/programme-lv/arena/store"
)

func TestRequestHintChargesAndReturnsContent(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 2000)
	p := register(t, svc, comp.ID, "alice")

	hint, err := svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 1)
	require.NoError(t, err)
	require.Equal(t, "use prefix sums", hint.Content)
	require.Equal(t, 500, hint.TokenCost)
	require.Equal(t, 1, hint.Level)

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1500, got.RemainingTokens)

	// deeper levels cost more
	hint, err = svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 2)
	require.NoError(t, err)
	require.Equal(t, "difference array", hint.Content)
	require.Equal(t, 1000, hint.TokenCost)

	recs, err := st.Query(ctx, store.RecHint, store.Filter{CompetitionID: comp.ID})
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestRequestHintInvalidLevel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 2000)
	p := register(t, svc, comp.ID, "alice")

	for _, level := range []int{0, -1, 4} {
		_, err := svc.RequestHint(ctx, comp.ID, p.ID, "haybales", level)
		requireErrCode(t, err, contest.ErrCodeInvalidHintLevel)
	}

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2000, got.RemainingTokens)
}

func TestRequestHintInsufficientTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 1000)
	p, err := svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{
		Name: "alice", TokenBudget: 300,
	})
	require.NoError(t, err)

	_, err = svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 1)
	requireErrCode(t, err, ledger.ErrCodeInsufficientTokens)

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 300, got.RemainingTokens)
}

func TestRequestHintUnavailableKeepsCharge(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 2000)
	p := register(t, svc, comp.ID, "alice")

	// cow-travel has no authored hints; the charge precedes the lookup
	// and is not refunded when the provider comes up empty
	_, err := svc.RequestHint(ctx, comp.ID, p.ID, "cow-travel", 1)
	requireErrCode(t, err, contest.ErrCodeHintUnavailable)

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1500, got.RemainingTokens)
}

type flakyHintProvider struct {
	err error
}

func (f *flakyHintProvider) Hint(ctx context.Context, problem catalog.Problem, level int) (string, error) {
	return "", f.err
}

func TestRequestHintProviderFailureKeepsCharge(t *testing.T) {
	provider := &flakyHintProvider{err: fmt.Errorf("hint model overloaded")}
	svc, _, _ := newTestService(t, contest.WithHintProvider(provider))
	ctx := context.Background()
	comp := createCompetition(t, svc, 2000)
	p := register(t, svc, comp.ID, "alice")

	_, err := svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 1)
	requireErrCode(t, err, contest.ErrCodeHintUnavailable)

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1500, got.RemainingTokens)
}

func TestRequestHintDrainingBudgetTerminates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 1000)
	p, err := svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{
		Name: "alice", TokenBudget: 500,
	})
	require.NoError(t, err)

	hint, err := svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 1)
	require.NoError(t, err)
	require.Equal(t, "use prefix sums", hint.Content)

	got, err := svc.GetParticipant(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.RemainingTokens)
	require.Equal(t, contest.ParticipantTerminated, got.Status)
	require.Equal(t, contest.TermReasonOutOfTokens, got.TermReason)
}

func TestRequestHintTerminatedParticipant(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 2000)
	p := register(t, svc, comp.ID, "alice")
	_, err := svc.TerminateParticipant(ctx, comp.ID, p.ID, "")
	require.NoError(t, err)

	_, err = svc.RequestHint(ctx, comp.ID, p.ID, "haybales", 1)
	requireErrCode(t, err, contest.ErrCodeParticipantTerminated)
}
