package contest

import (
	"context"

	"github.com/programme-lv/arena/srvcerror"
)

// TerminateParticipant moves the participant into the absorbing
// terminated state. Terminating twice is not an error: the first
// reason survives and is returned. When the last running participant
// terminates, the competition closes itself.
func (s *Service) TerminateParticipant(ctx context.Context, competitionID, participantID string, reason TerminationReason) (TerminationReason, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return "", serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return "", serr
	}

	if reason == "" {
		reason = TermReasonSelfTerminated
	}

	surviving, serr := s.terminatePart(ctx, ps, reason)
	if serr != nil {
		return "", serr
	}

	if serr := s.maybeAutoClose(ctx, cs); serr != nil {
		return "", serr
	}

	return surviving, nil
}

// terminatePart is the single place a participant's state flips.
// Idempotent: an already-terminated participant keeps its reason and
// triggers no new persistence write.
func (s *Service) terminatePart(ctx context.Context, ps *partState, reason TerminationReason) (TerminationReason, *srvcerror.Error) {
	ps.mu.Lock()
	if ps.p.Status == ParticipantTerminated {
		surviving := ps.p.TermReason
		ps.mu.Unlock()
		return surviving, nil
	}
	ps.p.Status = ParticipantTerminated
	ps.p.TermReason = reason
	ps.version++
	name := ps.p.Name
	compID := ps.p.CompetitionID
	ps.mu.Unlock()

	if serr := s.persistParticipant(ctx, ps); serr != nil {
		return reason, serr
	}

	s.logger.Info("participant terminated",
		"competition_id", compID, "name", name, "reason", reason)
	return reason, nil
}

// maybeAutoClose closes the competition once every participant has
// terminated. Lock order is competition before participant.
func (s *Service) maybeAutoClose(ctx context.Context, cs *compState) *srvcerror.Error {
	cs.mu.Lock()
	if cs.comp.Status != CompetitionActive || len(cs.parts) == 0 {
		cs.mu.Unlock()
		return nil
	}
	for _, ps := range cs.parts {
		ps.mu.Lock()
		running := ps.p.Status == ParticipantRunning
		ps.mu.Unlock()
		if running {
			cs.mu.Unlock()
			return nil
		}
	}
	cs.comp.Status = CompetitionClosed
	cs.version++
	compID := cs.comp.ID
	cs.mu.Unlock()

	if serr := s.persistCompetition(ctx, cs); serr != nil {
		return serr
	}

	s.logger.Info("competition closed, all participants terminated",
		"competition_id", compID)
	return nil
}

// checkExhaustion terminates the participant once a successful debit
// has drained the balance to exactly zero. Runs after the triggering
// operation has finished its own state updates.
func (s *Service) checkExhaustion(ctx context.Context, cs *compState, ps *partState, balanceAfter int) *srvcerror.Error {
	if balanceAfter != 0 {
		return nil
	}
	if _, serr := s.terminatePart(ctx, ps, TermReasonOutOfTokens); serr != nil {
		return serr
	}
	return s.maybeAutoClose(ctx, cs)
}

// checkAllSolved terminates a participant who has solved the full
// problem set, when the rule set opts in.
func (s *Service) checkAllSolved(ctx context.Context, cs *compState, ps *partState) *srvcerror.Error {
	cs.mu.RLock()
	enabled := cs.comp.Rules.TerminateOnAllSolved
	problemIDs := cs.comp.ProblemIDs
	cs.mu.RUnlock()
	if !enabled {
		return nil
	}

	ps.mu.Lock()
	allSolved := true
	for _, pid := range problemIDs {
		if !ps.p.Solved[pid] {
			allSolved = false
			break
		}
	}
	ps.mu.Unlock()
	if !allSolved {
		return nil
	}

	if _, serr := s.terminatePart(ctx, ps, TermReasonAllProblemsSolved); serr != nil {
		return serr
	}
	return s.maybeAutoClose(ctx, cs)
}
