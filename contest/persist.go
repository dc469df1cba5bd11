package contest

import (
	"context"
	"encoding/json"

	"github.com/programme-lv/arena/ledger"
	"github.com/programme-lv/arena/srvcerror"
	"github.com/programme-lv/arena/store"
)

// participantRecord is the durable snapshot of one participant.
// Credentials live outside the Participant struct in the payload
// because read views must never carry them.
type participantRecord struct {
	Participant Participant    `json:"participant"`
	Credentials Credentials    `json:"credentials"`
	TokenLog    []ledger.Entry `json:"tokenLog"`
}

func (s *Service) persistCompetition(ctx context.Context, cs *compState) *srvcerror.Error {
	cs.mu.RLock()
	comp := cs.comp
	version := cs.version
	cs.mu.RUnlock()

	payload, err := json.Marshal(comp)
	if err != nil {
		return srvcerror.ErrInternalSE().SetDebug(err)
	}

	err = s.store.Put(ctx, store.Record{
		Type:          store.RecCompetition,
		ID:            comp.ID,
		CompetitionID: comp.ID,
		Version:       version,
		Payload:       payload,
	})
	if err != nil {
		s.logger.Error("competition record write failed",
			"competition_id", comp.ID, "error", err)
		return ErrStateNotPersisted().SetDebug(err)
	}
	return nil
}

func (s *Service) persistParticipant(ctx context.Context, ps *partState) *srvcerror.Error {
	ps.persistMu.Lock()
	defer ps.persistMu.Unlock()

	ps.mu.Lock()
	snap := ps.p.clone()
	version := ps.version
	uid := ps.uid
	ps.mu.Unlock()

	acct, err := s.ledger.Snapshot(uid)
	if err != nil {
		return srvcerror.ErrInternalSE().SetDebug(err)
	}

	payload, err := json.Marshal(participantRecord{
		Participant: snap,
		Credentials: snap.Credentials,
		TokenLog:    acct.Log,
	})
	if err != nil {
		return srvcerror.ErrInternalSE().SetDebug(err)
	}

	err = s.store.Put(ctx, store.Record{
		Type:          store.RecParticipant,
		ID:            snap.ID,
		CompetitionID: snap.CompetitionID,
		ParticipantID: snap.ID,
		Version:       version,
		Payload:       payload,
	})
	if err != nil {
		s.logger.Error("participant record write failed",
			"participant_id", snap.ID, "error", err)
		return ErrStateNotPersisted().SetDebug(err)
	}
	return nil
}

// persistSubmission writes a finalized submission. Submissions are
// immutable once finalized, so there is exactly one write per id.
func (s *Service) persistSubmission(ctx context.Context, sub Submission) *srvcerror.Error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return srvcerror.ErrInternalSE().SetDebug(err)
	}

	err = s.store.Put(ctx, store.Record{
		Type:          store.RecSubmission,
		ID:            sub.ID,
		CompetitionID: sub.CompetitionID,
		ParticipantID: sub.ParticipantID,
		Version:       1,
		Payload:       payload,
	})
	if err != nil {
		s.logger.Error("submission record write failed",
			"submission_id", sub.ID, "error", err)
		return ErrStateNotPersisted().SetDebug(err)
	}
	return nil
}

func (s *Service) persistHint(ctx context.Context, h Hint) *srvcerror.Error {
	payload, err := json.Marshal(h)
	if err != nil {
		return srvcerror.ErrInternalSE().SetDebug(err)
	}

	err = s.store.Put(ctx, store.Record{
		Type:          store.RecHint,
		ID:            h.ID,
		CompetitionID: h.CompetitionID,
		ParticipantID: h.ParticipantID,
		Version:       1,
		Payload:       payload,
	})
	if err != nil {
		s.logger.Error("hint record write failed",
			"hint_id", h.ID, "error", err)
		return ErrStateNotPersisted().SetDebug(err)
	}
	return nil
}
