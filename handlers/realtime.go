package handlers

import (
	"log"
	"net/http"

	"github.com/Cloud-Net-Park/Gravel/models"
	"github.com/Cloud-Net-Park/Gravel/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// access is gated by the api key
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeHandler struct {
	Hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// Subscribe upgrades the request and streams change events for :table
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	table := c.Param("table")
	switch table {
	case models.TableProducts, models.TableUsers, models.TableFitProfiles:
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	client := realtime.NewClient(h.Hub, conn, table)
	if !h.Hub.Join(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
