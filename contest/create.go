package contest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/scoring"
)

type CreateCompetitionParams struct {
	Title              string
	Description        string
	ProblemIDs         []string
	Rules              *scoring.Rules // nil selects the default rule set
	DefaultTokenBudget int
}

// CreateCompetition validates the rule set and problem list, then
// registers and persists a new active competition. The rule set is
// frozen from here on.
func (s *Service) CreateCompetition(ctx context.Context, params CreateCompetitionParams) (Competition, error) {
	if params.Title == "" {
		return Competition{}, ErrInvalidRules(fmt.Errorf("title must not be empty"))
	}
	if params.DefaultTokenBudget <= 0 {
		return Competition{}, ErrInvalidRules(fmt.Errorf("default token budget must be positive"))
	}
	if len(params.ProblemIDs) == 0 {
		return Competition{}, ErrInvalidRules(fmt.Errorf("competition needs at least one problem"))
	}

	seen := make(map[string]bool, len(params.ProblemIDs))
	for _, pid := range params.ProblemIDs {
		if seen[pid] {
			return Competition{}, ErrInvalidRules(fmt.Errorf("problem '%s' listed twice", pid))
		}
		seen[pid] = true
		if !s.catalog.Exists(pid) {
			return Competition{}, ErrUnknownProblem(pid)
		}
	}

	rules := scoring.DefaultRules()
	if params.Rules != nil {
		rules = *params.Rules
	}
	if err := rules.Validate(); err != nil {
		return Competition{}, ErrInvalidRules(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Competition{}, fmt.Errorf("failed to generate competition id: %w", err)
	}

	comp := Competition{
		ID:                 id.String(),
		Title:              params.Title,
		Description:        params.Description,
		ProblemIDs:         append([]string(nil), params.ProblemIDs...),
		Rules:              rules,
		DefaultTokenBudget: params.DefaultTokenBudget,
		Status:             CompetitionActive,
		CreatedAt:          time.Now().UTC(),
	}

	cs := &compState{
		comp:    comp,
		parts:   make(map[string]*partState),
		byName:  make(map[string]string),
		version: 1,
		subms:   make(map[string]Submission),
	}

	s.mu.Lock()
	s.comps[comp.ID] = cs
	s.mu.Unlock()

	if err := s.persistCompetition(ctx, cs); err != nil {
		return Competition{}, err
	}

	s.logger.Info("competition created",
		"competition_id", comp.ID, "title", comp.Title, "problems", len(comp.ProblemIDs))
	return comp, nil
}

// CloseCompetition ends the contest: the status flips to closed, every
// running participant is terminated, and further register, submit and
// hint calls fail with competition_closed.
func (s *Service) CloseCompetition(ctx context.Context, competitionID string) (Competition, error) {
	cs, serr := s.comp(competitionID)
	if serr != nil {
		return Competition{}, serr
	}

	cs.mu.Lock()
	alreadyClosed := cs.comp.Status == CompetitionClosed
	if !alreadyClosed {
		cs.comp.Status = CompetitionClosed
		cs.version++
	}
	comp := cs.comp
	parts := make([]*partState, 0, len(cs.parts))
	for _, ps := range cs.parts {
		parts = append(parts, ps)
	}
	cs.mu.Unlock()

	if alreadyClosed {
		return comp, nil
	}

	for _, ps := range parts {
		if _, err := s.terminatePart(ctx, ps, TermReasonCompetitionClosed); err != nil {
			return Competition{}, err
		}
	}

	if err := s.persistCompetition(ctx, cs); err != nil {
		return Competition{}, err
	}

	s.logger.Info("competition closed", "competition_id", comp.ID)
	return comp, nil
}
