package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/config"
	"github.com/DAVIPRADIPTA/website-anemware/internal/auth"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"
	"github.com/DAVIPRADIPTA/website-anemware/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket and joins the consultation's room;
// query: token, consultation_id. Messages travel over the REST send endpoint,
// the socket only receives room events. Membership is required; an expired or
// completed session may still be watched (history stays readable).
func UpgradeChatWS(cfg *config.JWTConfig, hub *ws.Hub, chatSvc *service.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		idStr := c.Query("consultation_id")
		if token == "" || idStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and consultation_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consultation_id"})
			return
		}
		if _, err := chatSvc.AuthorizeMember(c.Request.Context(), uint(id), claims.UserID); err != nil {
			respondError(c, err)
			return
		}

		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := ws.NewClient(claims.UserID, claims.Role)
		roomName := service.RoomName(uint(id))
		room := hub.GetOrCreateRoom(roomName)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
			hub.RemoveRoomIfEmpty(roomName)
		}()

		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
