package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/reputation-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/reputation-ledger/internal/logger"
	"github.com/ignatzorin/reputation-ledger/internal/ws"
)

// EventsHandler подключает подписчиков к ленте событий операций.
type EventsHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *ws.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Проверку Origin выполняет CORS middleware выше по цепочке.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handle GET /api/events
func (h *EventsHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		common.RespondBadRequest(c, "не удалось установить websocket соединение")
		return
	}

	client := ws.NewClient(conn, h.hub)
	h.hub.Register(client)
	logger.WithComponent("ws").Debug("подписчик подключился к ленте событий")

	client.Run(c.Request.Context())
}
