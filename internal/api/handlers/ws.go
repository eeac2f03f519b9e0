package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/autoprime/pkg/ws"
)

// HandleWebSocket 已登录用户的实时提示通道
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if h.wsHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live updates are disabled"})
		return
	}
	sess := h.loadSession(c)
	if !sess.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to continue"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn, sess.User.ID)
	client.Register()
	h.wsHub.Notify(sess.User.ID, ws.MsgTypeHello, gin.H{"name": sess.User.FirstName()})

	go client.ReadPump()
	go client.WritePump()
}
