package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akarpov/ringmesh/internal/core"
	"github.com/akarpov/ringmesh/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		// Closing the transport unblocks readPump, whose teardown path
		// deregisters the identity.
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when the read loop exits for any
// reason the identity is deregistered (stale-teardown guarded) and the
// transport is closed.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id domain.UserID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("user", string(id)).Msg("readPump closing")
		cancel()
		ctl.Coord.Disconnect(id, c)
		c.Close()
	}()

	// A peer that stops answering pings misses the read deadline and is
	// torn down through the normal disconnect path above.
	pongWait := ctl.Cfg.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("user", string(id)).Msg("readPump read error")
				}
				return
			}
			ctl.handleEvent(id, c, data)
		}
	}
}

// handleEvent decodes the envelope and dispatches on its type. A bad or
// unknown event is dropped without touching the connection.
func (ctl *Controller) handleEvent(id domain.UserID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	if !c.limiter.Allow() {
		log.Warn().Str("module", "signal").Str("user", string(id)).Str("type", env.Type).Msg("rate limited, dropping")
		return
	}

	switch env.Type {
	case "call-user":
		ctl.handleCallUser(id, data)
	case "answer-call":
		ctl.handleAnswerCall(id, data)
	case "ice-candidate":
		ctl.handleCandidate(id, data)
	case "reject-call":
		ctl.handleRejectCall(id, data)
	case "end-call":
		ctl.handleEndCall(id, data)
	case "typing":
		ctl.handleTyping(id, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(core.Frame(b))
}
