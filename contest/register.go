package contest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/scoring"
)

type RegisterParticipantParams struct {
	Name        string
	Credentials Credentials
	TokenBudget int // 0 falls back to the competition default
}

// RegisterParticipant adds a competitor to an active competition.
// Names are unique within a competition; the token budget comes from
// the request override or the competition default and opens the ledger
// account that gates every costed action from here on.
func (s *Service) RegisterParticipant(ctx context.Context, competitionID string, params RegisterParticipantParams) (Participant, error) {
	if params.Name == "" {
		return Participant{}, ErrInvalidRegistration("participant name must not be empty")
	}
	if params.TokenBudget < 0 {
		return Participant{}, ErrInvalidRegistration("token budget must not be negative")
	}

	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Participant{}, serr
	}

	uid, err := uuid.NewV7()
	if err != nil {
		return Participant{}, fmt.Errorf("failed to generate participant id: %w", err)
	}

	cs.mu.Lock()
	if cs.comp.Status != CompetitionActive {
		cs.mu.Unlock()
		return Participant{}, ErrCompetitionClosed()
	}
	if _, taken := cs.byName[params.Name]; taken {
		cs.mu.Unlock()
		return Participant{}, ErrDuplicateParticipant(params.Name)
	}

	budget := params.TokenBudget
	if budget == 0 {
		budget = cs.comp.DefaultTokenBudget
	}

	p := Participant{
		ID:              uid.String(),
		CompetitionID:   cs.comp.ID,
		Name:            params.Name,
		Credentials:     params.Credentials,
		InitialTokens:   budget,
		RemainingTokens: budget,
		TierScores:      make(map[scoring.Tier]int),
		Solved:          make(map[string]bool),
		Stats:           make(map[string]*ProblemStats),
		SubmissionIDs:   []string{},
		Status:          ParticipantRunning,
		CreatedAt:       time.Now().UTC(),
	}

	ps := &partState{p: p, uid: uid, version: 1}

	if err := s.ledger.Open(uid, budget); err != nil {
		cs.mu.Unlock()
		return Participant{}, err
	}

	cs.parts[p.ID] = ps
	cs.byName[p.Name] = p.ID
	cs.mu.Unlock()

	if serr := s.persistParticipant(ctx, ps); serr != nil {
		return Participant{}, serr
	}

	s.logger.Info("participant registered",
		"competition_id", competitionID, "participant_id", p.ID,
		"name", p.Name, "budget", budget)
	return p.clone(), nil
}
