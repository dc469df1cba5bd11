// Package store is the durable record gateway behind the competition
// engine. The engine serializes its state snapshots into records; the
// store treats payloads as opaque and only understands the envelope
// fields used for lookups and write ordering.
package store

import (
	"context"
)

type RecType string

const (
	RecCompetition RecType = "competition"
	RecParticipant RecType = "participant"
	RecSubmission  RecType = "submission"
	RecHint        RecType = "hint"
)

// Record is one durable row. Version orders writes to the same id:
// a put with a version lower than the stored one is rejected, so a
// stale snapshot can never overwrite a newer one.
type Record struct {
	Type          RecType
	ID            string
	CompetitionID string
	ParticipantID string
	Version       int64
	Payload       []byte
}

// Filter narrows a query by equality on envelope fields. Zero values
// match everything.
type Filter struct {
	CompetitionID string
	ParticipantID string
}

// RecordStore is synchronous and authoritative: a returned nil from
// Put means the record is durable.
type RecordStore interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, recType RecType, id string) (Record, error)
	Query(ctx context.Context, recType RecType, filter Filter) ([]Record, error)
}

func (f Filter) matches(rec Record) bool {
	if f.CompetitionID != "" && rec.CompetitionID != f.CompetitionID {
		return false
	}
	if f.ParticipantID != "" && rec.ParticipantID != f.ParticipantID {
		return false
	}
	return true
}
