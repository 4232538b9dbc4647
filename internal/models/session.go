package models

import (
	"github.com/google/uuid"
	"time"
)

// GameSession одиночный таймер игры (solo режим)
type GameSession struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt time.Time
	// ISO8601, проще отдавать фронту как есть
	ExpiresAt string `gorm:"not null"`
}
