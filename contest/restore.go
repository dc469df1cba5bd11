package contest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/scoring"
	"github.com/programme-lv/arena/store"
)

// Restore rehydrates every competition, participant and submission
// from the record store. Call it once at startup before serving;
// it is not safe to run concurrently with engine operations.
func (s *Service) Restore(ctx context.Context) error {
	compRecs, err := s.store.Query(ctx, store.RecCompetition, store.Filter{})
	if err != nil {
		return fmt.Errorf("failed to load competition records: %w", err)
	}

	participants := 0
	for _, rec := range compRecs {
		var comp Competition
		if err := json.Unmarshal(rec.Payload, &comp); err != nil {
			return fmt.Errorf("failed to decode competition record '%s': %w", rec.ID, err)
		}

		cs := &compState{
			comp:    comp,
			parts:   make(map[string]*partState),
			byName:  make(map[string]string),
			version: rec.Version,
			subms:   make(map[string]Submission),
		}

		partRecs, err := s.store.Query(ctx, store.RecParticipant, store.Filter{CompetitionID: comp.ID})
		if err != nil {
			return fmt.Errorf("failed to load participant records: %w", err)
		}
		for _, prec := range partRecs {
			var pr participantRecord
			if err := json.Unmarshal(prec.Payload, &pr); err != nil {
				return fmt.Errorf("failed to decode participant record '%s': %w", prec.ID, err)
			}

			p := pr.Participant
			p.Credentials = pr.Credentials
			normalizeRestored(&p)

			uid, err := uuid.Parse(p.ID)
			if err != nil {
				return fmt.Errorf("participant record '%s' has a malformed id: %w", prec.ID, err)
			}
			if err := s.ledger.Restore(uid, p.InitialTokens, p.RemainingTokens, pr.TokenLog); err != nil {
				return fmt.Errorf("failed to restore ledger account '%s': %w", p.ID, err)
			}

			cs.parts[p.ID] = &partState{p: p, uid: uid, version: prec.Version}
			cs.byName[p.Name] = p.ID
			participants++
		}

		submRecs, err := s.store.Query(ctx, store.RecSubmission, store.Filter{CompetitionID: comp.ID})
		if err != nil {
			return fmt.Errorf("failed to load submission records: %w", err)
		}
		for _, srec := range submRecs {
			var sub Submission
			if err := json.Unmarshal(srec.Payload, &sub); err != nil {
				return fmt.Errorf("failed to decode submission record '%s': %w", srec.ID, err)
			}
			cs.subms[sub.ID] = sub
		}

		s.mu.Lock()
		s.comps[comp.ID] = cs
		s.mu.Unlock()
	}

	s.logger.Info("state restored from record store",
		"competitions", len(compRecs), "participants", participants)
	return nil
}

// normalizeRestored re-creates the maps a JSON round-trip may have
// nilled out so engine code never branches on nil.
func normalizeRestored(p *Participant) {
	if p.TierScores == nil {
		p.TierScores = make(map[scoring.Tier]int)
	}
	if p.Solved == nil {
		p.Solved = make(map[string]bool)
	}
	if p.Stats == nil {
		p.Stats = make(map[string]*ProblemStats)
	}
	if p.SubmissionIDs == nil {
		p.SubmissionIDs = []string{}
	}
}
