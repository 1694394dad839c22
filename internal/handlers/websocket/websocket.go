// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"strconv"

	"loyaltyhub-service/internal/middleware"
	"loyaltyhub-service/internal/pkg/response"
	ws "loyaltyhub-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *ws.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// BranchActivity upgrades the connection and streams assignment events for
// the branch the portal token is bound to. The branch in the path must match
// the one in the token.
func (h *WSHandler) BranchActivity(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid branch id", err)
		return
	}

	tokenBranch, ok := middleware.GetBranchID(c)
	if !ok || tokenBranch != branchID {
		response.Forbidden(c, "token is not bound to this branch")
		return
	}

	jti := middleware.MustGetJTI(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Int64("branch_id", branchID),
			zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, branchID, jti, h.logger)
	client.Start()
}
