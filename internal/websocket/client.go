package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mission-vitale/backend/internal/metrics"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 64 * 1024
)

// Event входящее сообщение протокола комнаты
type Event struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	PuzzleID int             `json:"puzzle_id,omitempty"`
	State    json.RawMessage `json:"state,omitempty"`
}

// Client одно живое соединение, привязанное к (комната, пользователь, роль)
// на все время жизни.
type Client struct {
	UserID   uuid.UUID
	Username string
	Role     string
	RoomCode string

	Conn  *websocket.Conn
	Send  chan []byte
	Hub   *Hub
	Locks *LockTable

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, locks *LockTable, conn *websocket.Conn, code string, userID uuid.UUID, username, role string) *Client {
	return &Client{
		UserID:   userID,
		Username: username,
		Role:     role,
		RoomCode: code,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
		Locks:    locks,
	}
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (c *Client) enqueue(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// ReadPump читает события комнаты до дисконнекта. Закрытие соединения —
// единственный сигнал отмены: дерегистрация и presence_leave происходят
// всегда, даже если соединение умерло посреди отправки.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Disconnect(c.RoomCode, c)
		c.Conn.Close()
		c.Hub.Broadcast(c.RoomCode, map[string]interface{}{
			"type": "presence_leave",
			"user": c.Username,
			"ts":   nowUTC(),
		})
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("user", c.Username).Msg("websocket read error")
			}
			break
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.sendError("JSON invalide")
			continue
		}

		c.handleEvent(&event)
	}
}

func (c *Client) handleEvent(event *Event) {
	metrics.WsEventsTotal.WithLabelValues(event.Type).Inc()
	ts := nowUTC()

	switch event.Type {
	case "chat":
		c.Hub.Broadcast(c.RoomCode, map[string]interface{}{
			"type": "chat",
			"from": c.Username,
			"role": c.Role,
			"text": event.Text,
			"ts":   ts,
		})

	case "state":
		// синхронизация общего состояния энигмы (позиции DnD, ребра SCHEMA)
		c.Hub.Broadcast(c.RoomCode, map[string]interface{}{
			"type":      "state",
			"from":      c.Username,
			"role":      c.Role,
			"puzzle_id": event.PuzzleID,
			"state":     event.State,
			"ts":        ts,
		})

	case "lock":
		ok, holder := c.Locks.Acquire(c.RoomCode, event.PuzzleID, c.UserID)
		if !ok {
			c.Hub.SendDirect(c, map[string]interface{}{
				"type":      "lock_denied",
				"puzzle_id": event.PuzzleID,
				"locked_by": holder,
			})
			return
		}
		c.Hub.Broadcast(c.RoomCode, map[string]interface{}{
			"type":      "lock_acquired",
			"puzzle_id": event.PuzzleID,
			"by_user":   c.Username,
			"ts":        ts,
		})

	case "unlock":
		ok, _ := c.Locks.Release(c.RoomCode, event.PuzzleID, c.UserID)
		if !ok {
			c.Hub.SendDirect(c, map[string]interface{}{
				"type":      "unlock_denied",
				"puzzle_id": event.PuzzleID,
			})
			return
		}
		c.Hub.Broadcast(c.RoomCode, map[string]interface{}{
			"type":      "lock_released",
			"puzzle_id": event.PuzzleID,
			"by_user":   c.Username,
			"ts":        ts,
		})

	case "ping":
		c.Hub.SendDirect(c, map[string]interface{}{
			"type": "pong",
			"ts":   ts,
		})

	default:
		c.sendError("type inconnu")
	}
}

func (c *Client) sendError(message string) {
	c.Hub.SendDirect(c, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

// WritePump отправляет сообщения клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
