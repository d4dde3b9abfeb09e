package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/ringmesh/internal/domain"
)

// Offer, answer and candidate payloads are opaque blobs exchanged between
// the two endpoints; they pass through as json.RawMessage and are never
// inspected. An event without a targetUserId is a no-op.

func (ctl *Controller) handleCallUser(from domain.UserID, data []byte) {
	var p struct {
		Type         string          `json:"type"`
		TargetUserID string          `json:"targetUserId"`
		Offer        json.RawMessage `json:"offer"`
		MediaKind    string          `json:"mediaKind"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad call-user payload")
		return
	}
	if p.TargetUserID == "" {
		log.Warn().Str("module", "signal").Str("from", string(from)).Msg("call-user without target")
		return
	}
	log.Info().Str("module", "signal").Str("from", string(from)).Str("to", p.TargetUserID).Str("media", p.MediaKind).Msg("call-user")
	ctl.Coord.Initiate(from, domain.UserID(p.TargetUserID), p.Offer, domain.MediaKind(p.MediaKind))
}

func (ctl *Controller) handleAnswerCall(from domain.UserID, data []byte) {
	var p struct {
		Type         string          `json:"type"`
		TargetUserID string          `json:"targetUserId"`
		Answer       json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer-call payload")
		return
	}
	if p.TargetUserID == "" {
		return
	}
	ctl.Coord.Answer(from, domain.UserID(p.TargetUserID), p.Answer)
}

func (ctl *Controller) handleCandidate(from domain.UserID, data []byte) {
	var p struct {
		Type         string          `json:"type"`
		TargetUserID string          `json:"targetUserId"`
		Candidate    json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad ice-candidate payload")
		return
	}
	if p.TargetUserID == "" {
		return
	}
	ctl.Coord.RelayCandidate(from, domain.UserID(p.TargetUserID), p.Candidate)
}

func (ctl *Controller) handleRejectCall(from domain.UserID, data []byte) {
	var p struct {
		Type         string `json:"type"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad reject-call payload")
		return
	}
	if p.TargetUserID == "" {
		return
	}
	log.Info().Str("module", "signal").Str("from", string(from)).Str("to", p.TargetUserID).Msg("reject-call")
	ctl.Coord.Reject(from, domain.UserID(p.TargetUserID))
}

func (ctl *Controller) handleEndCall(from domain.UserID, data []byte) {
	var p struct {
		Type         string `json:"type"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end-call payload")
		return
	}
	if p.TargetUserID == "" {
		return
	}
	log.Info().Str("module", "signal").Str("from", string(from)).Str("to", p.TargetUserID).Msg("end-call")
	ctl.Coord.End(from, domain.UserID(p.TargetUserID))
}

func (ctl *Controller) handleTyping(from domain.UserID, data []byte) {
	var p struct {
		Type string `json:"type"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad typing payload")
		return
	}
	if p.To == "" {
		return
	}
	ctl.Coord.Typing(from, domain.UserID(p.To))
}
