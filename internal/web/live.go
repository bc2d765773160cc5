package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kapu/isv-directory/internal/constants"
	"go.uber.org/zap"
)

// handleWebSocket upgrades to a live search session. Every text frame is the
// current value of the search input; every reply is a fresh cardsReply.
// Nothing is wired when the profile document failed to load.
func (s *Server) handleWebSocket(c *gin.Context) {
	if !s.directory.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profiles unavailable"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	session := &liveSession{
		conn:   conn,
		server: s,
		logger: s.logger.With(zap.String("remote", c.ClientIP())),
	}
	session.run()
}

type liveSession struct {
	conn   *websocket.Conn
	server *Server
	logger *zap.Logger
}

// run reads queries until the peer goes away. Queries on one connection are
// handled strictly one after another.
func (ls *liveSession) run() {
	defer ls.conn.Close()

	done := make(chan struct{})
	defer close(done)
	go ls.keepAlive(done)

	ls.conn.SetReadLimit(constants.WebSocketConfig.ReadLimit)
	ls.extendDeadline()
	ls.conn.SetPongHandler(func(string) error {
		ls.extendDeadline()
		return nil
	})

	ls.logger.Debug("Live search session started")
	defer ls.logger.Debug("Live search session stopped")

	for {
		msgType, msg, err := ls.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ls.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		ls.extendDeadline()

		reply, err := ls.server.reply(string(msg))
		if err != nil {
			ls.logger.Error("Failed to render cards", zap.Error(err))
			return
		}

		_ = ls.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
		if err := ls.conn.WriteJSON(reply); err != nil {
			ls.logger.Warn("WebSocket write error", zap.Error(err))
			return
		}
	}
}

func (ls *liveSession) extendDeadline() {
	_ = ls.conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongWait))
}

// keepAlive pings the browser so idle sessions survive the read deadline.
// WriteControl may run concurrently with the read loop's writes.
func (ls *liveSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
			if err := ls.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
