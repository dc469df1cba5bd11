package contest_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/programme-lv/arena/contest"
)

func TestRegisterParticipantBudgets(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 1000)

	t.Run("default budget", func(t *testing.T) {
		p := register(t, svc, comp.ID, "alice")
		require.Equal(t, 1000, p.InitialTokens)
		require.Equal(t, 1000, p.RemainingTokens)
		require.Equal(t, contest.ParticipantRunning, p.Status)
	})

	t.Run("override budget", func(t *testing.T) {
		p, err := svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{
			Name: "bob", TokenBudget: 250,
		})
		require.NoError(t, err)
		require.Equal(t, 250, p.InitialTokens)
	})
}

func TestRegisterParticipantValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 1000)

	_, err := svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{Name: ""})
	requireErrCode(t, err, contest.ErrCodeInvalidRegistration)

	_, err = svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{
		Name: "alice", TokenBudget: -5,
	})
	requireErrCode(t, err, contest.ErrCodeInvalidRegistration)

	_, err = svc.RegisterParticipant(ctx, "missing", contest.RegisterParticipantParams{Name: "alice"})
	requireErrCode(t, err, contest.ErrCodeCompetitionNotFound)
}

func TestRegisterParticipantNameTakenPerCompetition(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	first := createCompetition(t, svc, 1000)
	second := createCompetition(t, svc, 1000)

	register(t, svc, first.ID, "alice")
	_, err := svc.RegisterParticipant(ctx, first.ID, contest.RegisterParticipantParams{Name: "alice"})
	requireErrCode(t, err, contest.ErrCodeDuplicateParticipant)

	// the same name is free in another competition
	register(t, svc, second.ID, "alice")
}

func TestParticipantCredentialsNeverSerialized(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	comp := createCompetition(t, svc, 1000)
	p, err := svc.RegisterParticipant(ctx, comp.ID, contest.RegisterParticipantParams{
		Name: "alice",
		Credentials: contest.Credentials{
			ApiBaseURL: "https://llm.example.com",
			ApiKey:     "sk-very-secret",
		},
	})
	require.NoError(t, err)

	view, err := svc.GetStateView(ctx, comp.ID, p.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "sk-very-secret")

	raw, err = json.Marshal(p)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "sk-very-secret")
}
