package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/handlers/dto"
	"github.com/mission-vitale/backend/internal/middleware"
	"github.com/mission-vitale/backend/internal/models"
	ws "github.com/mission-vitale/backend/internal/websocket"
	"github.com/mission-vitale/backend/pkg/auth"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

type CollabHandler struct {
	db         *database.Database
	hub        *ws.Hub
	locks      *ws.LockTable
	jwtManager *auth.JWTManager
	upgrader   websocket.Upgrader

	// назначение ролей идет строго по одному: между чтением занятых ролей
	// и записью участника не должно вклиниться другое назначение
	joinMu sync.Mutex
}

func NewCollabHandler(db *database.Database, hub *ws.Hub, locks *ws.LockTable, jwtMgr *auth.JWTManager) *CollabHandler {
	return &CollabHandler{
		db:         db,
		hub:        hub,
		locks:      locks,
		jwtManager: jwtMgr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверить origin в prod
				return true
			},
		},
	}
}

func genRoomCode() (string, error) {
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// CreateRoom создает комнату сразу в статусе running
func (h *CollabHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.RoomCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duration := req.DurationSeconds
	if duration <= 0 {
		duration = defaultSessionDuration
	}

	now := time.Now().UTC()
	room := &models.CollabRoom{
		OwnerID:   userID,
		Status:    models.RoomRunning,
		StartedAt: now,
		ExpiresAt: isoUTC(now.Add(time.Duration(duration) * time.Second)),
	}

	// при коллизии кода пробуем еще раз, любая другая ошибка — сразу 500
	for attempt := 0; attempt < 5; attempt++ {
		code, err := genRoomCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate room code"})
			return
		}
		room.Code = code
		err = h.db.CreateRoom(room)
		if err == nil {
			c.JSON(http.StatusCreated, formatRoomResponse(room))
			return
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Error().Err(err).Msg("room create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
}

// GetRoom информация о комнате по коду
func (h *CollabHandler) GetRoom(c *gin.Context) {
	room, err := h.db.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, formatRoomResponse(room))
}

// JoinRoom добавляет или обновляет участника и назначает роль
func (h *CollabHandler) JoinRoom(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	h.joinMu.Lock()
	defer h.joinMu.Unlock()

	room, err := h.db.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if room.Status == models.RoomFinished {
		c.JSON(http.StatusForbidden, gin.H{"error": "room is finished"})
		return
	}

	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role != "" && !validRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role", "roles": models.Roles})
		return
	}

	taken, err := h.db.TakenRoles(room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read members"})
		return
	}

	role := ""
	if req.Role != "" {
		if taken[req.Role] {
			// роль может быть занята самим пользователем при повторном join
			member, err := h.db.GetRoomMember(room.ID, userID)
			if err != nil || member.Role != req.Role {
				c.JSON(http.StatusConflict, gin.H{"error": "role already taken: " + req.Role})
				return
			}
		}
		role = req.Role
	} else {
		// авто-назначение первой свободной роли; все заняты — участник без роли
		for _, r := range models.Roles {
			if !taken[r] {
				role = r
				break
			}
		}
	}

	if err := h.db.UpsertRoomMember(room.ID, userID, role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
		return
	}

	h.respondMembers(c, room.ID)
}

// ListMembers участники комнаты
func (h *CollabHandler) ListMembers(c *gin.Context) {
	room, err := h.db.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	h.respondMembers(c, room.ID)
}

func (h *CollabHandler) respondMembers(c *gin.Context, roomID uint) {
	members, err := h.db.ListRoomMembers(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	result := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		result[i] = dto.MemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			Role:     m.Role,
		}
	}

	c.JSON(http.StatusOK, result)
}

// HandleWebSocket поднимает realtime соединение комнаты.
// Токен приходит в query (?token=...), bind до любых событий:
// 4401 — невалидный токен, 4404 — комнаты нет.
func (h *CollabHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	claims, err := h.jwtManager.Verify(c.Query("token"))
	if err != nil {
		closeWithCode(conn, ws.CloseUnauthorized, "unauthorized")
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		closeWithCode(conn, ws.CloseUnauthorized, "unauthorized")
		return
	}

	code := c.Param("code")
	room, err := h.db.GetRoomByCode(code)
	if err != nil {
		closeWithCode(conn, ws.CloseRoomNotFound, "room not found")
		return
	}

	// роль фиксируется на все время жизни соединения
	role := ""
	if member, err := h.db.GetRoomMember(room.ID, userID); err == nil {
		role = member.Role
	}

	client := ws.NewClient(h.hub, h.locks, conn, code, userID, claims.Username, role)
	h.hub.Connect(code, client)

	log.Info().Str("room", code).Str("user", claims.Username).Str("role", role).Msg("websocket joined")

	h.hub.Broadcast(code, map[string]interface{}{
		"type": "presence_join",
		"user": claims.Username,
		"role": role,
		"ts":   time.Now().UTC().Format(time.RFC3339),
	})

	go client.WritePump()
	go client.ReadPump()
}

func closeWithCode(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}

func validRole(role string) bool {
	for _, r := range models.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func formatRoomResponse(room *models.CollabRoom) dto.RoomResponse {
	return dto.RoomResponse{
		ID:        room.ID,
		Code:      room.Code,
		Status:    room.Status,
		StartedAt: room.StartedAt,
		ExpiresAt: room.ExpiresAt,
	}
}
