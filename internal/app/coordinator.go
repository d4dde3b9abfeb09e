package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akarpov/ringmesh/internal/core"
	"github.com/akarpov/ringmesh/internal/domain"
)

// Coordinator drives a call attempt between two registered identities.
// It keeps no call state of its own: every operation is a presence lookup
// followed by a forward of the sender's payload to the target. Offers,
// answers and candidates are opaque blobs, never parsed here.
type Coordinator struct {
	Presence *Presence
	Policy   Policy
}

func NewCoordinator(p *Presence) *Coordinator {
	return &Coordinator{
		Presence: p,
		Policy:   SimplePolicy{},
	}
}

// Connect registers the identity and publishes the new online list.
// Anonymous connections stay unregistered: connected but unreachable.
func (c *Coordinator) Connect(id domain.UserID, conn core.SignalConnection) {
	if id.IsAnonymous() {
		log.Info().Str("module", "app.coordinator").Msg("anonymous connection, skipping registration")
		return
	}
	c.Presence.Register(id, conn)
	c.broadcastOnline()
}

// Disconnect drops the registration if conn is still current and, when a
// removal happened, publishes the updated online list. A superseded
// connection's teardown is a no-op.
func (c *Coordinator) Disconnect(id domain.UserID, conn core.SignalConnection) {
	if id.IsAnonymous() {
		return
	}
	if c.Presence.Unregister(id, conn) {
		c.broadcastOnline()
	}
}

// Initiate forwards a call offer to the target. An unreachable target is
// a silent drop: the caller's ring screen simply never gets an answer.
func (c *Coordinator) Initiate(from, to domain.UserID, offer json.RawMessage, kind domain.MediaKind) {
	c.deliver(to, struct {
		Type      string           `json:"type"`
		From      domain.UserID    `json:"from"`
		Offer     json.RawMessage  `json:"offer"`
		MediaKind domain.MediaKind `json:"mediaKind,omitempty"`
	}{"call-made", from, offer, kind})
}

// Answer forwards the callee's answer back to the original initiator.
func (c *Coordinator) Answer(from, to domain.UserID, answer json.RawMessage) {
	c.deliver(to, struct {
		Type   string          `json:"type"`
		From   domain.UserID   `json:"from"`
		Answer json.RawMessage `json:"answer"`
	}{"answer-call", from, answer})
}

// RelayCandidate forwards a network-path candidate at any point in the
// call. Candidates may arrive before the offer reaches the other side or
// after the answer; relaying is deliberately not gated by call state.
func (c *Coordinator) RelayCandidate(from, to domain.UserID, candidate json.RawMessage) {
	c.deliver(to, struct {
		Type      string          `json:"type"`
		From      domain.UserID   `json:"from"`
		Candidate json.RawMessage `json:"candidate"`
	}{"ice-candidate", from, candidate})
}

// Reject tells the initiator the callee declined.
func (c *Coordinator) Reject(from, to domain.UserID) {
	c.deliver(to, struct {
		Type string        `json:"type"`
		From domain.UserID `json:"from"`
	}{"call-rejected", from})
}

// End tells the other side the call is over. Also used by a caller who
// hangs up before being answered.
func (c *Coordinator) End(from, to domain.UserID) {
	c.deliver(to, struct {
		Type string        `json:"type"`
		From domain.UserID `json:"from"`
	}{"call-ended", from})
}

// Typing relays a typing indicator to the chat peer.
func (c *Coordinator) Typing(from, to domain.UserID) {
	c.deliver(to, struct {
		Type string        `json:"type"`
		From domain.UserID `json:"from"`
		To   domain.UserID `json:"to"`
	}{"typing", from, to})
}

// Shutdown closes every registered connection.
func (c *Coordinator) Shutdown() {
	for _, snap := range c.Presence.connections() {
		snap.Conn.Close()
	}
}

// deliver is the single chokepoint all operations go through: look up the
// target, encode, fire and forget. No-ops silently when the target has no
// live registration.
func (c *Coordinator) deliver(to domain.UserID, v any) {
	conn, ok := c.Presence.Lookup(to)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("to", string(to)).Msg("target not registered, dropping")
		return
	}
	c.send(to, conn, v)
}

// broadcastOnline publishes the full online-identity list to every
// registered connection. O(connections) per presence change.
func (c *Coordinator) broadcastOnline() {
	users := c.Presence.Snapshot()
	msg := struct {
		Type  string          `json:"type"`
		Users []domain.UserID `json:"users"`
	}{"getOnlineUsers", users}

	for _, snap := range c.Presence.connections() {
		c.send(snap.ID, snap.Conn, msg)
	}
}

func (c *Coordinator) send(to domain.UserID, conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode event")
		return
	}
	if err := conn.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("to", string(to)).Msg("send failed")
		if c.Policy == nil {
			return
		}
		if c.Policy.OnBackpressure(to, conn) == KickConn {
			conn.Close()
		}
	}
}
