package web

import (
	"net/http"
	"net/url"
	"time"

	"auxbox/helpers/logs"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for now (adjust in production)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket upgrades /ws/:token to the push channel. The token is
// verified before the upgrade; a bad token rejects the handshake outright
// with no response body.
func (a *API) handleWebSocket(c *gin.Context) {
	logger := logs.GetLogger().WithFields(logrus.Fields{
		"module":    "web",
		"handler":   "handleWebSocket",
		"client_ip": c.ClientIP(),
	})

	token := c.Param("token")
	if unescaped, err := url.PathUnescape(token); err == nil {
		token = unescaped
	}

	creds, err := a.codec.VerifyCredentials(token)
	if err != nil {
		logger.WithError(err).Warn("Rejected handshake")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("Failed to upgrade connection to WebSocket")
		return
	}

	client := a.hub.Register(conn, creds.Session)
	defer a.hub.Unregister(client)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Read loop - the channel is push-only, inbound frames are drained to
	// keep pong handling alive and to notice the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithError(err).Warn("WebSocket connection closed unexpectedly")
			} else {
				logger.Debug("WebSocket connection closed normally")
			}
			break
		}
	}
}
