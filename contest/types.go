package contest

import (
	"time"

	"github.com/programme-lv/arena/judge"
	"github.com/programme-lv/arena/ledger"
	"github.com/programme-lv/arena/ranking"
	"github.com/programme-lv/arena/scoring"
)

type CompetitionStatus string

const (
	CompetitionActive CompetitionStatus = "active"
	CompetitionClosed CompetitionStatus = "closed"
)

// Competition groups problems, participants and an immutable rule set.
// Rules never change after creation so scores stay comparable.
type Competition struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	ProblemIDs         []string          `json:"problemIds"`
	Rules              scoring.Rules     `json:"rules"`
	DefaultTokenBudget int               `json:"defaultTokenBudget"`
	Status             CompetitionStatus `json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
}

type ParticipantStatus string

const (
	ParticipantRunning    ParticipantStatus = "running"
	ParticipantTerminated ParticipantStatus = "terminated"
)

type TerminationReason string

const (
	TermReasonSelfTerminated    TerminationReason = "competitor_terminated"
	TermReasonManual            TerminationReason = "manual"
	TermReasonOutOfTokens       TerminationReason = "out_of_tokens"
	TermReasonAllProblemsSolved TerminationReason = "all_problems_solved"
	TermReasonCompetitionClosed TerminationReason = "competition_closed"
	TermReasonViolation         TerminationReason = "violation"
	TermReasonTimeout           TerminationReason = "timeout"
	TermReasonError             TerminationReason = "error"
)

// Credentials are the participant's agent-invocation secrets. The
// engine stores and relays them but never interprets or exposes them
// in any read view.
type Credentials struct {
	ApiBaseURL string `json:"apiBaseUrl,omitempty"`
	ApiKey     string `json:"apiKey,omitempty"`
}

// ProblemStats is one participant's history against one problem.
type ProblemStats struct {
	SubmissionCount int    `json:"submissionCount"`
	BestScore       int    `json:"bestScore"`
	Penalty         int    `json:"penalty"`
	PassedTests     int    `json:"passedTests"`
	FailedTests     int    `json:"failedTests"`
	FirstAc         bool   `json:"firstAc"`
	LastLanguage    string `json:"lastLanguage,omitempty"`
}

// Participant is the authoritative scoring state of one competitor.
// All mutation goes through engine operations; once terminated only
// reads succeed.
type Participant struct {
	ID            string      `json:"id"`
	CompetitionID string      `json:"competitionId"`
	Name          string      `json:"name"`
	Credentials   Credentials `json:"-"`

	InitialTokens   int `json:"initialTokens"`
	RemainingTokens int `json:"remainingTokens"`

	PassScore    int                  `json:"passScore"`
	BonusScore   int                  `json:"bonusScore"`
	PenaltyScore int                  `json:"penaltyScore"`
	TierScores   map[scoring.Tier]int `json:"tierScores"`

	InferenceCalls int `json:"inferenceCalls"`

	Solved        map[string]bool          `json:"solved"`
	Stats         map[string]*ProblemStats `json:"problemStats"`
	SubmissionIDs []string                 `json:"submissionIds"`

	Status     ParticipantStatus `json:"status"`
	TermReason TerminationReason `json:"terminationReason,omitempty"`

	// ScoreReachedAt is when the current total score was first reached;
	// zero until the first scoring event.
	ScoreReachedAt time.Time `json:"scoreReachedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TotalScore is pass plus bonus minus penalty.
func (p *Participant) TotalScore() int {
	return p.PassScore + p.BonusScore - p.PenaltyScore
}

func (p *Participant) Running() bool {
	return p.Status == ParticipantRunning
}

type SubmissionStatus string

const (
	SubmissionPending          SubmissionStatus = "pending"
	SubmissionAccepted         SubmissionStatus = "accepted"
	SubmissionWrongAnswer      SubmissionStatus = "wrong_answer"
	SubmissionRuntimeError     SubmissionStatus = "runtime_error"
	SubmissionCompileError     SubmissionStatus = "compile_error"
	SubmissionTimeLimit        SubmissionStatus = "time_limit_exceeded"
	SubmissionMemoryLimit      SubmissionStatus = "memory_limit_exceeded"
	SubmissionJudgeUnavailable SubmissionStatus = "judge_unavailable"
)

func statusFromVerdict(kind judge.VerdictKind) SubmissionStatus {
	switch kind {
	case judge.VerdictAC:
		return SubmissionAccepted
	case judge.VerdictWA:
		return SubmissionWrongAnswer
	case judge.VerdictRE:
		return SubmissionRuntimeError
	case judge.VerdictCE:
		return SubmissionCompileError
	case judge.VerdictTLE:
		return SubmissionTimeLimit
	case judge.VerdictMLE:
		return SubmissionMemoryLimit
	default:
		return SubmissionJudgeUnavailable
	}
}

// Submission is immutable once its status leaves pending.
type Submission struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competitionId"`
	ParticipantID string `json:"participantId"`
	ProblemID     string `json:"problemId"`

	Code     string `json:"code"`
	Language string `json:"language"`

	Status      SubmissionStatus   `json:"status"`
	TestResults []judge.TestResult `json:"testResults"`
	PassedTests int                `json:"passedTests"`
	TotalTests  int                `json:"totalTests"`

	PassScore  int `json:"passScore"`
	BonusScore int `json:"bonusScore"`
	Penalty    int `json:"penalty"`
	TokenCost  int `json:"tokenCost"`

	SubmittedAt time.Time `json:"submittedAt"`
}

// Hint is the record of one purchased hint.
type Hint struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competitionId"`
	ParticipantID string    `json:"participantId"`
	ProblemID     string    `json:"problemId"`
	Level         int       `json:"level"`
	Content       string    `json:"content"`
	TokenCost     int       `json:"tokenCost"`
	RequestedAt   time.Time `json:"requestedAt"`
}

// UsageReceipt confirms one metered inference call.
type UsageReceipt struct {
	Model           string `json:"model"`
	InputTokens     int    `json:"inputTokens"`
	OutputTokens    int    `json:"outputTokens"`
	TokenCost       int    `json:"tokenCost"`
	RemainingTokens int    `json:"remainingTokens"`
}

// CompetitorStatus is what one participant may learn about another:
// name and liveness, nothing else.
type CompetitorStatus struct {
	Name              string            `json:"name"`
	Terminated        bool              `json:"terminated"`
	TerminationReason TerminationReason `json:"terminationReason,omitempty"`
}

// ProblemSummary is the problem list entry inside a state view.
type ProblemSummary struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Tier     scoring.Tier `json:"tier"`
	MaxScore int          `json:"maxScore"`
}

// ProblemDetail adds the statement and limits for a single-problem read.
type ProblemDetail struct {
	ProblemSummary
	StatementMd string `json:"statementMd"`
	CpuMs       int    `json:"cpuMs"`
	MemKiB      int    `json:"memKiB"`
	TestCount   int    `json:"testCount"`
}

// StateView is the per-turn payload an agent observes. Its shape is
// the read contract agents parse every turn, so fields are always
// present and never renamed within a competition run.
type StateView struct {
	Competition Competition        `json:"competition"`
	Participant Participant        `json:"participant"`
	TokenLog    []ledger.Entry     `json:"tokenLog"`
	Problems    []ProblemSummary   `json:"problems"`
	Rankings    []ranking.Entry    `json:"rankings"`
	Others      []CompetitorStatus `json:"otherCompetitors"`
}
