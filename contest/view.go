package contest

import (
	"context"
	"sort"

	"github.com/programme-lv/arena/ranking"
	"github.com/programme-lv/arena/srvcerror"
)

// GetCompetition returns the competition header, rules included.
func (s *Service) GetCompetition(ctx context.Context, competitionID string) (Competition, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Competition{}, serr
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.comp, nil
}

// ListCompetitions returns all competitions, newest first.
func (s *Service) ListCompetitions(ctx context.Context) []Competition {
	s.mu.RLock()
	states := make([]*compState, 0, len(s.comps))
	for _, cs := range s.comps {
		states = append(states, cs)
	}
	s.mu.RUnlock()

	comps := make([]Competition, 0, len(states))
	for _, cs := range states {
		cs.mu.RLock()
		comps = append(comps, cs.comp)
		cs.mu.RUnlock()
	}
	sort.Slice(comps, func(i, j int) bool {
		return comps[i].CreatedAt.After(comps[j].CreatedAt)
	})
	return comps
}

// GetParticipant returns a copy of the participant's own state.
func (s *Service) GetParticipant(ctx context.Context, competitionID, participantID string) (Participant, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Participant{}, serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return Participant{}, serr
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.p.clone(), nil
}

// GetSubmission returns one submission, pending or finalized.
func (s *Service) GetSubmission(ctx context.Context, competitionID, submissionID string) (Submission, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Submission{}, serr
	}
	sub, ok := cs.getSubm(submissionID)
	if !ok {
		return Submission{}, ErrSubmissionNotFound(submissionID)
	}
	return sub, nil
}

// Rankings recomputes the leaderboard from live participant state.
// Each participant is snapshotted under its own lock, so the board is
// internally consistent per participant and cheap to produce.
func (s *Service) Rankings(ctx context.Context, competitionID string) ([]ranking.Entry, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return nil, serr
	}

	rules := cs.rules()
	cs.mu.RLock()
	parts := make([]*partState, 0, len(cs.parts))
	for _, ps := range cs.parts {
		parts = append(parts, ps)
	}
	cs.mu.RUnlock()

	snaps := make([]ranking.Snapshot, 0, len(parts))
	for _, ps := range parts {
		ps.mu.Lock()
		snaps = append(snaps, ranking.Snapshot{
			ID:                ps.p.ID,
			Name:              ps.p.Name,
			PassScore:         ps.p.PassScore,
			BonusScore:        ps.p.BonusScore,
			PenaltyScore:      ps.p.PenaltyScore,
			SolvedCount:       len(ps.p.Solved),
			SubmissionCount:   len(ps.p.SubmissionIDs),
			InitialTokens:     ps.p.InitialTokens,
			RemainingTokens:   ps.p.RemainingTokens,
			ScoreReachedAt:    ps.p.ScoreReachedAt,
			Terminated:        ps.p.Status == ParticipantTerminated,
			TerminationReason: string(ps.p.TermReason),
		})
		ps.mu.Unlock()
	}

	return ranking.Standings(snaps, float64(rules.EfficiencyLambda)), nil
}

// GetProblem returns the agent-facing problem sheet.
func (s *Service) GetProblem(ctx context.Context, competitionID, problemID string) (ProblemDetail, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return ProblemDetail{}, serr
	}
	if !cs.hasProblem(problemID) {
		return ProblemDetail{}, ErrUnknownProblem(problemID)
	}

	prob, err := s.catalog.Get(problemID)
	if err != nil {
		return ProblemDetail{}, err
	}

	rules := cs.rules()
	return ProblemDetail{
		ProblemSummary: ProblemSummary{
			ID:       prob.ID,
			Title:    prob.Title,
			Tier:     prob.Tier,
			MaxScore: rules.TierScores[prob.Tier],
		},
		StatementMd: prob.StatementMd,
		CpuMs:       prob.CpuMs,
		MemKiB:      prob.MemKiB,
		TestCount:   len(prob.Tests),
	}, nil
}

// GetStateView assembles the per-turn observation for one agent:
// the competition, the caller's own full state with its consumption
// log, the problem list, current rankings and the liveness of every
// other competitor. Other participants leak nothing beyond name,
// terminated flag and reason.
func (s *Service) GetStateView(ctx context.Context, competitionID, participantID string) (StateView, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return StateView{}, serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return StateView{}, serr
	}

	cs.mu.RLock()
	comp := cs.comp
	others := make([]*partState, 0, len(cs.parts))
	for id, other := range cs.parts {
		if id != participantID {
			others = append(others, other)
		}
	}
	cs.mu.RUnlock()

	ps.mu.Lock()
	self := ps.p.clone()
	uid := ps.uid
	ps.mu.Unlock()

	tokenLog, err := s.ledger.Entries(uid)
	if err != nil {
		return StateView{}, srvcerror.ErrInternalSE().SetDebug(err)
	}

	problems := make([]ProblemSummary, 0, len(comp.ProblemIDs))
	for _, pid := range comp.ProblemIDs {
		prob, err := s.catalog.Get(pid)
		if err != nil {
			return StateView{}, err
		}
		problems = append(problems, ProblemSummary{
			ID:       prob.ID,
			Title:    prob.Title,
			Tier:     prob.Tier,
			MaxScore: comp.Rules.TierScores[prob.Tier],
		})
	}

	entries, err := s.Rankings(ctx, competitionID)
	if err != nil {
		return StateView{}, err
	}

	statuses := make([]CompetitorStatus, 0, len(others))
	for _, other := range others {
		other.mu.Lock()
		statuses = append(statuses, CompetitorStatus{
			Name:              other.p.Name,
			Terminated:        other.p.Status == ParticipantTerminated,
			TerminationReason: other.p.TermReason,
		})
		other.mu.Unlock()
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})

	return StateView{
		Competition: comp,
		Participant: self,
		TokenLog:    tokenLog,
		Problems:    problems,
		Rankings:    entries,
		Others:      statuses,
	}, nil
}
