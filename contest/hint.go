package contest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/catalog"
)

// RequestHint sells a tiered hint. The ledger debit strictly precedes
// content generation, and a provider failure after the debit is not
// refunded: the charge buys the attempt, mirroring the judging policy.
func (s *Service) RequestHint(ctx context.Context, competitionID, participantID, problemID string, level int) (Hint, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Hint{}, serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return Hint{}, serr
	}

	if !cs.active() {
		return Hint{}, ErrCompetitionClosed()
	}
	if !cs.hasProblem(problemID) {
		return Hint{}, ErrUnknownProblem(problemID)
	}

	prob, err := s.catalog.Get(problemID)
	if err != nil {
		return Hint{}, err
	}

	rules := cs.rules()
	cost, ok := rules.HintCost(level)
	if !ok {
		return Hint{}, ErrInvalidHintLevel(level)
	}

	hintID, err := uuid.NewV7()
	if err != nil {
		return Hint{}, fmt.Errorf("failed to generate hint id: %w", err)
	}

	ps.mu.Lock()
	if ps.p.Status != ParticipantRunning {
		reason := ps.p.TermReason
		ps.mu.Unlock()
		return Hint{}, ErrParticipantTerminated(reason)
	}
	balanceAfter, err := s.ledger.Debit(ps.uid, cost, fmt.Sprintf("hint:%s:level_%d", problemID, level))
	if err != nil {
		ps.mu.Unlock()
		return Hint{}, err
	}
	ps.p.RemainingTokens = balanceAfter
	ps.version++
	ps.mu.Unlock()

	content, hintErr := s.hints.Hint(ctx, prob, level)

	// The charge is committed either way; make it durable before
	// reporting the outcome.
	if serr := s.persistParticipant(ctx, ps); serr != nil {
		return Hint{}, serr
	}

	if hintErr != nil {
		if serr := s.checkExhaustion(ctx, cs, ps, balanceAfter); serr != nil {
			return Hint{}, serr
		}
		return Hint{}, ErrHintUnavailable(problemID, level).SetDebug(hintErr)
	}

	hint := Hint{
		ID:            hintID.String(),
		CompetitionID: competitionID,
		ParticipantID: participantID,
		ProblemID:     problemID,
		Level:         level,
		Content:       content,
		TokenCost:     cost,
		RequestedAt:   time.Now().UTC(),
	}

	if serr := s.persistHint(ctx, hint); serr != nil {
		return Hint{}, serr
	}
	if serr := s.checkExhaustion(ctx, cs, ps, balanceAfter); serr != nil {
		return Hint{}, serr
	}

	return hint, nil
}

// CatalogHintProvider serves the hints authored alongside the problem.
type CatalogHintProvider struct {
	cat catalog.Accessor
}

func NewCatalogHintProvider(cat catalog.Accessor) *CatalogHintProvider {
	return &CatalogHintProvider{cat: cat}
}

func (cp *CatalogHintProvider) Hint(ctx context.Context, problem catalog.Problem, level int) (string, error) {
	content, ok := problem.Hints[level]
	if !ok {
		return "", fmt.Errorf("problem '%s' has no level %d hint", problem.ID, level)
	}
	return content, nil
}
