package contest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/langlist"
	"github.com/programme-lv/arena/logger"
)

// Submit charges the participant, sends the code to the judge and
// folds the verdict into the participant's score. Tokens are debited
// before the judge is invoked and are not refunded on judge transport
// failure; such submissions finalize as judge_unavailable. The judge
// call is the only blocking section and runs outside every lock, so
// one participant's slow judge round-trip never stalls another.
func (s *Service) Submit(ctx context.Context, competitionID, participantID, problemID, code, language string) (Submission, error) {
	ctx = logger.WithCompetition(ctx, competitionID)

	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Submission{}, serr
	}
	ps, serr := cs.part(participantID)
	if serr != nil {
		return Submission{}, serr
	}

	if !cs.active() {
		return Submission{}, ErrCompetitionClosed()
	}
	if !cs.hasProblem(problemID) {
		return Submission{}, ErrUnknownProblem(problemID)
	}

	prob, err := s.catalog.Get(problemID)
	if err != nil {
		return Submission{}, err
	}

	lang, err := langlist.GetById(language)
	if err != nil {
		return Submission{}, err
	}
	if code == "" {
		return Submission{}, ErrInvalidSubmission("submission code must not be empty")
	}
	if len(code) > s.maxCodeSize {
		return Submission{}, ErrInvalidSubmission(
			fmt.Sprintf("submission code exceeds %d bytes", s.maxCodeSize))
	}

	subID, err := uuid.NewV7()
	if err != nil {
		return Submission{}, fmt.Errorf("failed to generate submission id: %w", err)
	}

	rules := cs.rules()
	cost := rules.SubmissionCost(language, len(prob.Tests))

	// Charge and record the attempt atomically with respect to every
	// other operation of this participant. A failed debit leaves no
	// trace: no submission record, no stats change, judge never called.
	ps.mu.Lock()
	if ps.p.Status != ParticipantRunning {
		reason := ps.p.TermReason
		ps.mu.Unlock()
		return Submission{}, ErrParticipantTerminated(reason)
	}
	balanceAfter, err := s.ledger.Debit(ps.uid, cost, "submission:"+problemID)
	if err != nil {
		ps.mu.Unlock()
		return Submission{}, err
	}
	ps.p.RemainingTokens = balanceAfter
	stat := ps.p.stat(problemID)
	stat.SubmissionCount++
	stat.LastLanguage = language
	ps.p.SubmissionIDs = append(ps.p.SubmissionIDs, subID.String())
	ps.version++
	ps.mu.Unlock()

	sub := Submission{
		ID:            subID.String(),
		CompetitionID: competitionID,
		ParticipantID: participantID,
		ProblemID:     problemID,
		Code:          code,
		Language:      language,
		Status:        SubmissionPending,
		TotalTests:    len(prob.Tests),
		TokenCost:     cost,
		SubmittedAt:   time.Now().UTC(),
	}
	cs.putSubm(sub)

	results, judgeErr := s.runJudge(ctx, sub, *lang, prob)

	final := s.finalize(cs, ps, sub, prob, results, judgeErr)
	cs.putSubm(final)

	if serr := s.persistSubmission(ctx, final); serr != nil {
		return final, serr
	}
	if serr := s.persistParticipant(ctx, ps); serr != nil {
		return final, serr
	}

	if final.Status == SubmissionAccepted {
		if serr := s.checkAllSolved(ctx, cs, ps); serr != nil {
			return final, serr
		}
	}
	if serr := s.checkExhaustion(ctx, cs, ps, balanceAfter); serr != nil {
		return final, serr
	}

	return final, nil
}

func (s *Service) runJudge(ctx context.Context, sub Submission, lang langlist.ProgrammingLang, prob catalog.Problem) ([]judge.TestResult, error) {
	req := judge.Request{
		SubmissionID: sub.ID,
		Code:         sub.Code,
		Lang: judge.Lang{
			ID:               lang.ID,
			CodeFilename:     lang.CodeFilename,
			CompileCmd:       lang.CompileCmd,
			CompiledFilename: lang.CompiledFilename,
			ExecuteCmd:       lang.ExecuteCmd,
		},
		Tests:  judgeTests(prob.Tests),
		CpuMs:  prob.CpuMs,
		MemKiB: prob.MemKiB,
	}

	jctx, cancel := context.WithTimeout(ctx, s.judgeTimeout)
	defer cancel()
	return s.judge.Judge(jctx, req)
}

// finalize turns the judge outcome into the immutable submission and
// applies all score deltas to the participant. First-acceptance is
// decided and applied under the same lock hold, so two concurrent
// accepted verdicts for one problem can never both win the bonus.
func (s *Service) finalize(cs *compState, ps *partState, sub Submission, prob catalog.Problem, results []judge.TestResult, judgeErr error) Submission {
	rules := cs.rules()
	now := time.Now().UTC()

	worst, ok := judge.WorstVerdict(results)
	if judgeErr != nil || !ok {
		sub.Status = SubmissionJudgeUnavailable
		if judgeErr != nil {
			s.logger.Warn("judge transport failure, submission finalized without verdict",
				"submission_id", sub.ID, "error", judgeErr)
		}
	} else {
		sub.Status = statusFromVerdict(worst)
	}
	sub.TestResults = results
	for _, r := range results {
		if r.Verdict == judge.VerdictAC {
			sub.PassedTests++
		}
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	stat := ps.p.stat(sub.ProblemID)
	stat.PassedTests += sub.PassedTests
	stat.FailedTests += len(results) - sub.PassedTests

	if sub.Status != SubmissionJudgeUnavailable {
		firstAc := worst == judge.VerdictAC && !ps.p.Solved[sub.ProblemID]
		pass, bonus, penalty := rules.Score(worst, prob.Tier, firstAc)
		if s.penaltyHook != nil {
			penalty = s.penaltyHook(sub, penalty)
		}

		sub.PassScore = pass
		sub.BonusScore = bonus
		sub.Penalty = penalty

		if worst == judge.VerdictAC {
			ps.p.Solved[sub.ProblemID] = true
			if firstAc {
				stat.FirstAc = true
			}
		}
		ps.p.PassScore += pass
		ps.p.BonusScore += bonus
		ps.p.PenaltyScore += penalty
		ps.p.TierScores[prob.Tier] += pass + bonus
		if pass > stat.BestScore {
			stat.BestScore = pass
		}
		stat.Penalty += penalty
		if pass+bonus-penalty != 0 {
			ps.p.ScoreReachedAt = now
		}
	}

	ps.version++
	return sub
}

func judgeTests(assets []catalog.TestAsset) []judge.TestFile {
	tests := make([]judge.TestFile, len(assets))
	for i, a := range assets {
		tests[i] = judge.TestFile{
			InSha256:    a.InSha256,
			InDownlUrl:  a.InURL,
			InContent:   a.InContent,
			AnsSha256:   a.AnsSha256,
			AnsDownlUrl: a.AnsURL,
			AnsContent:  a.AnsContent,
		}
	}
	return tests
}
