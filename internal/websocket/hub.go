package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mission-vitale/backend/internal/metrics"
)

// Hub владеет таблицами комната -> живые соединения.
// Вся мутация только под mu, рассылка идет по снапшоту.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// Connect регистрирует соединение в комнате, идемпотентно для одного клиента
func (h *Hub) Connect(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[code] = room
	}
	if !room[client] {
		room[client] = true
		metrics.WsConnections.Inc()
	}
}

// Disconnect убирает соединение; повторный вызов — no-op
func (h *Hub) Disconnect(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeUnsafe(code, client)
}

func (h *Hub) removeUnsafe(code string, client *Client) {
	room, ok := h.rooms[code]
	if !ok {
		return
	}
	if room[client] {
		delete(room, client)
		client.closeSend()
		metrics.WsConnections.Dec()
	}
	if len(room) == 0 {
		delete(h.rooms, code)
	}
}

// Broadcast доставляет сообщение всем соединениям комнаты независимо:
// мертвый получатель молча выкидывается, остальные получают свое,
// вызывающий об ошибках не узнает.
func (h *Hub) Broadcast(code string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("broadcast marshal failed")
		return
	}

	// снапшот под RLock, сама отправка вне блокировки
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[code]))
	for client := range h.rooms[code] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var dead []*Client
	for _, client := range clients {
		if err := client.enqueue(data); err != nil {
			dead = append(dead, client)
		}
	}

	if len(dead) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range dead {
		log.Debug().Str("room", code).Str("user", client.Username).Msg("pruning dead connection")
		h.removeUnsafe(code, client)
	}
	h.mu.Unlock()
}

// SendDirect доставляет сообщение ровно одному соединению, ошибка уходит вызывающему
func (h *Hub) SendDirect(client *Client, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return client.enqueue(data)
}

// RoomSize число живых соединений комнаты
func (h *Hub) RoomSize(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}
