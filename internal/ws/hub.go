package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ignatzorin/reputation-ledger/internal/events"
	"github.com/ignatzorin/reputation-ledger/internal/logger"
)

// Hub рассылает события операций всем подключённым подписчикам.
// Лента общая: каждый подписчик получает каждое событие.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	ctx        context.Context
}

// NewHub создаёт новый хаб.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		ctx:        ctx,
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет подписчика.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подписчика.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast отправляет сериализованное сообщение всем подписчикам.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	case <-h.ctx.Done():
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленный подписчик отключается, чтобы не копить очередь.
			go client.Close()
		}
	}
}

// Broadcaster публикует события операций в ленту хаба.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// Emit сериализует событие и отдаёт его хабу. Ошибки сериализации только
// логируются: доставка событий не влияет на исход операции.
func (b *Broadcaster) Emit(event events.Event) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": event.Action,
		"data": event,
	})
	if err != nil {
		logger.WithComponent("ws").WithError(err).Error("не удалось сериализовать событие")
		return
	}
	b.hub.Broadcast(payload)
}
