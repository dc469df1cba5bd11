package contest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/ledger"
	"github.com/programme-lv/arena/scoring"
	"github.com/programme-lv/arena/srvcerror"
	"github.com/programme-lv/arena/store"
)

// HintProvider produces hint content once the engine has gated the
// request by tokens. Implementations may be as cheap as a catalog
// lookup or as expensive as an LLM call; the engine does not care.
type HintProvider interface {
	Hint(ctx context.Context, problem catalog.Problem, level int) (string, error)
}

// PenaltyHook adjusts a submission's penalty after individual scoring.
// It exists for error-propagation policies; nil means no adjustment.
type PenaltyHook func(sub Submission, penalty int) int

const defaultJudgeTimeout = 30 * time.Second
const defaultMaxCodeSize = 256 * 1024

// Service is the competition engine. It owns all mutable contest
// state; every mutation flows through one of its operations and is
// durably recorded before the operation returns success.
type Service struct {
	logger *slog.Logger

	mu    sync.RWMutex
	comps map[string]*compState

	ledger  *ledger.Ledger
	catalog catalog.Accessor
	judge   judge.Client
	hints   HintProvider
	store   store.RecordStore

	judgeTimeout time.Duration
	penaltyHook  PenaltyHook
	maxCodeSize  int
}

type Option func(*Service)

// WithJudgeTimeout caps how long a single judge call may block.
func WithJudgeTimeout(d time.Duration) Option {
	return func(s *Service) { s.judgeTimeout = d }
}

// WithPenaltyHook installs an error-propagation penalty adjustment.
func WithPenaltyHook(hook PenaltyHook) Option {
	return func(s *Service) { s.penaltyHook = hook }
}

// WithHintProvider replaces the default catalog-backed hint source.
func WithHintProvider(hp HintProvider) Option {
	return func(s *Service) { s.hints = hp }
}

// WithMaxCodeSize caps accepted submission code size in bytes.
func WithMaxCodeSize(n int) Option {
	return func(s *Service) { s.maxCodeSize = n }
}

func NewService(cat catalog.Accessor, judgeClient judge.Client, recordStore store.RecordStore, opts ...Option) *Service {
	s := &Service{
		logger:       slog.Default().With("module", "contest"),
		comps:        make(map[string]*compState),
		ledger:       ledger.New(),
		catalog:      cat,
		judge:        judgeClient,
		store:        recordStore,
		judgeTimeout: defaultJudgeTimeout,
		maxCodeSize:  defaultMaxCodeSize,
	}
	s.hints = NewCatalogHintProvider(cat)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// compState is the in-memory home of one competition. mu guards the
// competition fields and the roster; submissions have their own lock
// because they are touched on every judge round-trip.
type compState struct {
	mu      sync.RWMutex
	comp    Competition
	parts   map[string]*partState
	byName  map[string]string // display name -> participant id
	version int64

	submMu sync.RWMutex
	subms  map[string]Submission
}

// partState serializes all mutations of one participant. persistMu is
// held across store writes so snapshots leave in version order without
// blocking scoring on I/O.
type partState struct {
	mu        sync.Mutex
	p         Participant
	uid       uuid.UUID
	version   int64
	persistMu sync.Mutex
}

func (s *Service) comp(id string) (*compState, *srvcerror.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.comps[id]
	if !ok {
		return nil, ErrCompetitionNotFound(id)
	}
	return cs, nil
}

func (cs *compState) part(id string) (*partState, *srvcerror.Error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	ps, ok := cs.parts[id]
	if !ok {
		return nil, ErrParticipantNotFound(id)
	}
	return ps, nil
}

func (cs *compState) hasProblem(problemID string) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for _, id := range cs.comp.ProblemIDs {
		if id == problemID {
			return true
		}
	}
	return false
}

func (cs *compState) active() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.comp.Status == CompetitionActive
}

// rules is safe to return by value: the rule set is frozen at creation.
func (cs *compState) rules() scoring.Rules {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.comp.Rules
}

func (cs *compState) putSubm(sub Submission) {
	cs.submMu.Lock()
	cs.subms[sub.ID] = sub
	cs.submMu.Unlock()
}

func (cs *compState) getSubm(id string) (Submission, bool) {
	cs.submMu.RLock()
	defer cs.submMu.RUnlock()
	sub, ok := cs.subms[id]
	return sub, ok
}

// stat returns the per-problem entry, creating it on first touch.
// Callers hold the participant lock.
func (p *Participant) stat(problemID string) *ProblemStats {
	st, ok := p.Stats[problemID]
	if !ok {
		st = &ProblemStats{}
		p.Stats[problemID] = st
	}
	return st
}

// clone returns a deep copy safe to hand out after the lock drops.
func (p *Participant) clone() Participant {
	cp := *p

	cp.TierScores = make(map[scoring.Tier]int, len(p.TierScores))
	for k, v := range p.TierScores {
		cp.TierScores[k] = v
	}
	cp.Solved = make(map[string]bool, len(p.Solved))
	for k, v := range p.Solved {
		cp.Solved[k] = v
	}
	cp.Stats = make(map[string]*ProblemStats, len(p.Stats))
	for k, v := range p.Stats {
		stat := *v
		cp.Stats[k] = &stat
	}
	cp.SubmissionIDs = append([]string(nil), p.SubmissionIDs...)

	return cp
}
