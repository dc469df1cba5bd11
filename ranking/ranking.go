// Package ranking turns participant snapshots into an ordered
// leaderboard. It is pure: the engine gathers snapshots under its own
// locks and hands them over, so callers decide the consistency point.
package ranking

import (
	"cmp"
	"slices"
	"time"
)

// Snapshot is one participant's scoring state at a point in time.
type Snapshot struct {
	ID              string
	Name            string
	PassScore       int
	BonusScore      int
	PenaltyScore    int
	SolvedCount     int
	SubmissionCount int
	InitialTokens   int
	RemainingTokens int
	// ScoreReachedAt is when the current score was first reached.
	// Zero means the participant has not scored yet.
	ScoreReachedAt    time.Time
	Terminated        bool
	TerminationReason string
}

// Entry is one leaderboard row. Score is pass+bonus-penalty; Total adds
// the efficiency term lambda*remaining/initial when lambda is positive.
type Entry struct {
	Rank              int     `json:"rank"`
	ParticipantID     string  `json:"participantId"`
	Name              string  `json:"name"`
	Score             int     `json:"score"`
	Total             float64 `json:"total"`
	SolvedCount       int     `json:"solvedCount"`
	SubmissionCount   int     `json:"submissionCount"`
	RemainingTokens   int     `json:"remainingTokens"`
	Terminated        bool    `json:"terminated"`
	TerminationReason string  `json:"terminationReason,omitempty"`
}

// Standings orders snapshots into ranked entries. Higher total first;
// ties broken by lower penalty, then earlier score time, then id, so
// equal inputs always produce the same order. Terminated participants
// keep their place on the board.
func Standings(snapshots []Snapshot, lambda float64) []Entry {
	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)

	totals := make(map[string]float64, len(sorted))
	for _, s := range sorted {
		totals[s.ID] = total(s, lambda)
	}

	slices.SortFunc(sorted, func(a, b Snapshot) int {
		if c := cmp.Compare(totals[b.ID], totals[a.ID]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.PenaltyScore, b.PenaltyScore); c != 0 {
			return c
		}
		if c := compareScoreTime(a.ScoreReachedAt, b.ScoreReachedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{
			Rank:              i + 1,
			ParticipantID:     s.ID,
			Name:              s.Name,
			Score:             s.PassScore + s.BonusScore - s.PenaltyScore,
			Total:             totals[s.ID],
			SolvedCount:       s.SolvedCount,
			SubmissionCount:   s.SubmissionCount,
			RemainingTokens:   s.RemainingTokens,
			Terminated:        s.Terminated,
			TerminationReason: s.TerminationReason,
		}
	}
	return entries
}

func total(s Snapshot, lambda float64) float64 {
	score := float64(s.PassScore + s.BonusScore - s.PenaltyScore)
	if lambda > 0 && s.InitialTokens > 0 {
		score += lambda * float64(s.RemainingTokens) / float64(s.InitialTokens)
	}
	return score
}

// compareScoreTime orders earlier scorers first; participants who never
// scored sort after everyone who did.
func compareScoreTime(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	default:
		return a.Compare(b)
	}
}
