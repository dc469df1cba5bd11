package contest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/contest"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/scoring"
	"github.com/programme-lv/arena/srvcerror"
	"github.com/programme-lv/arena/store"
)

func strPtr(s string) *string { return &s }

// testCatalog holds one problem per tier plus authored hints, enough
// to exercise every engine path without touching the filesystem.
func testCatalog() *catalog.InMemCatalog {
	twoTests := []catalog.TestAsset{
		{InContent: strPtr("1 2\n"), AnsContent: strPtr("3\n")},
		{InContent: strPtr("4 5\n"), AnsContent: strPtr("9\n")},
	}
	return catalog.NewInMemCatalog([]catalog.Problem{
		{
			ID: "haybales", Title: "Haybale Stacking", Tier: scoring.TierBronze,
			StatementMd: "# Haybale Stacking", CpuMs: 2000, MemKiB: 262144,
			Tests: twoTests,
			Hints: map[int]string{1: "use prefix sums", 2: "difference array"},
		},
		{
			ID: "fence-paint", Title: "Fence Painting", Tier: scoring.TierSilver,
			StatementMd: "# Fence Painting", CpuMs: 2000, MemKiB: 262144,
			Tests: twoTests,
			Hints: map[int]string{1: "sweep line"},
		},
		{
			ID: "cow-travel", Title: "Cow Travel", Tier: scoring.TierGold,
			StatementMd: "# Cow Travel", CpuMs: 4000, MemKiB: 524288,
			Tests: twoTests,
		},
	})
}

func newTestService(t *testing.T, opts ...contest.Option) (*contest.Service, *judge.StubClient, *store.InMemStore) {
	t.Helper()
	stub := judge.NewStubClient()
	st := store.NewInMemStore()
	svc := contest.NewService(testCatalog(), stub, st, opts...)
	return svc, stub, st
}

// scenarioRules is the rule set used throughout: bronze 100, first-AC
// bonus 50, WA penalty 10, flat submission cost 100.
func scenarioRules() scoring.Rules {
	rules := scoring.DefaultRules()
	rules.TierScores = map[scoring.Tier]int{
		scoring.TierBronze:   100,
		scoring.TierSilver:   200,
		scoring.TierGold:     500,
		scoring.TierPlatinum: 1000,
	}
	rules.FirstAcBonus = 50
	rules.Penalties[judge.VerdictWA] = 10
	rules.SubmissionTokens = 100
	rules.PerTestTokens = 0
	return rules
}

func createCompetition(t *testing.T, svc *contest.Service, budget int) contest.Competition {
	t.Helper()
	rules := scenarioRules()
	comp, err := svc.CreateCompetition(context.Background(), contest.CreateCompetitionParams{
		Title:              "Test Arena",
		Description:        "engine tests",
		ProblemIDs:         []string{"haybales", "fence-paint", "cow-travel"},
		Rules:              &rules,
		DefaultTokenBudget: budget,
	})
	require.NoError(t, err)
	return comp
}

func register(t *testing.T, svc *contest.Service, compID, name string) contest.Participant {
	t.Helper()
	p, err := svc.RegisterParticipant(context.Background(), compID, contest.RegisterParticipantParams{
		Name: name,
	})
	require.NoError(t, err)
	return p
}

// wrongAnswerOn scripts the stub to fail every test case with WA.
func wrongAnswerOn(stub *judge.StubClient) {
	stub.OnJudge = func(ctx context.Context, req judge.Request) ([]judge.TestResult, error) {
		results := make([]judge.TestResult, len(req.Tests))
		for i := range req.Tests {
			results[i] = judge.TestResult{TestID: i + 1, Verdict: judge.VerdictWA, RuntimeMs: 1, MemoryKiB: 256}
		}
		return results, nil
	}
}

func acceptAll(stub *judge.StubClient) {
	stub.OnJudge = nil
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var srvcErr *srvcerror.Error
	require.ErrorAs(t, err, &srvcErr)
	require.Equal(t, code, srvcErr.ErrorCode())
}

// failingStore wraps the in-memory store and fails writes on demand,
// simulating a durability gap after the in-memory commit.
type failingStore struct {
	*store.InMemStore
	failPuts bool
}

func (f *failingStore) Put(ctx context.Context, rec store.Record) error {
	if f.failPuts {
		return fmt.Errorf("record store unavailable")
	}
	return f.InMemStore.Put(ctx, rec)
}
