package dto

import (
	"time"

	"github.com/google/uuid"
)

type RoomCreateRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

type RoomResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt string    `json:"expires_at,omitempty"`
}

type JoinRoomRequest struct {
	// пустая роль = авто-назначение
	Role string `json:"role"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role,omitempty"`
}
