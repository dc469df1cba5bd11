package contest

import (
	"context"
	"fmt"
)

// RecordInference meters one LLM call made on the participant's
// behalf. The relay itself lives outside the engine; this operation
// only converts token counts into a ledger debit and bumps the call
// counter, under the same termination and durability rules as every
// other costed action.
func (s *Service) RecordInference(ctx context.Context, competitionID, participantID, model string, inputTokens, outputTokens int) (UsageReceipt, error) {
	if inputTokens < 0 || outputTokens < 0 {
		return UsageReceipt{}, ErrInvalidSubmission("token counts must not be negative")
	}

	cs, serr := s.comp(competitionID)
	if serr != nil {
		return UsageReceipt{}, serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return UsageReceipt{}, serr
	}

	if !cs.active() {
		return UsageReceipt{}, ErrCompetitionClosed()
	}

	rules := cs.rules()
	cost := rules.InferenceCost(model, inputTokens, outputTokens)

	ps.mu.Lock()
	if ps.p.Status != ParticipantRunning {
		reason := ps.p.TermReason
		ps.mu.Unlock()
		return UsageReceipt{}, ErrParticipantTerminated(reason)
	}
	balanceAfter, err := s.ledger.Debit(ps.uid, cost, fmt.Sprintf("inference:%s", model))
	if err != nil {
		ps.mu.Unlock()
		return UsageReceipt{}, err
	}
	ps.p.RemainingTokens = balanceAfter
	ps.p.InferenceCalls++
	ps.version++
	ps.mu.Unlock()

	if serr := s.persistParticipant(ctx, ps); serr != nil {
		return UsageReceipt{}, serr
	}
	if serr := s.checkExhaustion(ctx, cs, ps, balanceAfter); serr != nil {
		return UsageReceipt{}, serr
	}

	return UsageReceipt{
		Model:           model,
		InputTokens:     inputTokens,
		OutputTokens:    outputTokens,
		TokenCost:       cost,
		RemainingTokens: balanceAfter,
	}, nil
}
