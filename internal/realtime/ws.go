package realtime

import (
	"context"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"sensistream/internal/api/middleware"
	"sensistream/internal/common"
	"sensistream/internal/logger"
)

const (
	writeWait  = 10 * time.Second // Thời gian tối đa cho một lần ghi
	pongWait   = 60 * time.Second // Thời gian chờ pong từ client
	pingPeriod = 30 * time.Second // Chu kỳ gửi ping
)

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// WSHandler trả về Fiber handler cho endpoint websocket.
// Client xác thực bằng JWT qua query param token và được join vào room của organization mình.
func WSHandler(hub *Hub) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			middleware.HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		user, err := middleware.GetAuthManager().FindUserByToken(context.Background(), token)
		if err != nil {
			middleware.HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if user.IsBlock {
			middleware.HandleErrorResponse(c, common.ErrRoleDenied)
			return nil
		}

		orgID := user.OrganizationID.Hex()
		userID := user.ID.Hex()

		err = upgrader.Upgrade(c.Context(), func(conn *websocket.Conn) {
			serveClient(hub, conn, orgID, userID)
		})
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("⚠️ [REALTIME] Upgrade websocket thất bại")
		}
		return nil
	}
}

// serveClient chạy vòng đời một kết nối websocket: join room, bơm message ra client, giữ keepalive
func serveClient(hub *Hub, conn *websocket.Conn, orgID string, userID string) {
	log := logger.GetAppLogger()
	sub := hub.Subscribe(orgID, DefaultSendBuffer)
	defer func() {
		hub.Unsubscribe(sub)
		conn.Close()
	}()

	log.WithFields(logrus.Fields{
		"user_id":         userID,
		"organization_id": orgID,
	}).Info("🔌 [REALTIME] Client kết nối")

	// Write pump: đẩy message từ hub ra client và gửi ping định kỳ
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case message, ok := <-sub.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Read pump: nhận pong để giữ kết nối, phát hiện client đóng
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.Unsubscribe(sub)
	<-done

	log.WithFields(logrus.Fields{
		"user_id":         userID,
		"organization_id": orgID,
	}).Info("🔌 [REALTIME] Client ngắt kết nối")
}
