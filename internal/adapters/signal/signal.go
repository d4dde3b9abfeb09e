package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akarpov/ringmesh/internal/app"
	"github.com/akarpov/ringmesh/internal/config"
	"github.com/akarpov/ringmesh/internal/core"
	"github.com/akarpov/ringmesh/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Controller bridges websocket transports to the call coordinator.
type Controller struct {
	Coord *app.Coordinator
	Cfg   *config.Config
}

func NewController(cfg *config.Config, coord *app.Coordinator) *Controller {
	return &Controller{
		Coord: coord,
		Cfg:   cfg,
	}
}

// wsConn implements core.SignalConnection over one gorilla websocket.
// Writes go through the bounded send channel so the single writePump
// goroutine is the only writer; TrySend never blocks.
type wsConn struct {
	conn    *websocket.Conn
	send    chan core.Frame
	limiter *EventRateLimiter

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until the
// transport drops. The identity comes from the userId query parameter;
// without one the connection is accepted anonymously and never registered.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.UserID(c.Query("userId"))
	log.Info().Str("module", "signal").Str("user", string(id)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsConn{
		conn:    ws,
		send:    make(chan core.Frame, ctl.Cfg.SendQueue),
		limiter: NewEventRateLimiter(ctl.Cfg.RateLimit, ctl.Cfg.RateWindow),
	}

	ctx, cancel := context.WithCancel(ctx)

	ctl.Coord.Connect(id, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
