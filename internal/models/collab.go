package models

import (
	"github.com/google/uuid"
	"time"
)

// Статусы комнаты
const (
	RoomWaiting  = "waiting"
	RoomRunning  = "running"
	RoomFinished = "finished"
)

// Roles фиксированный набор ролей, порядок важен для авто-назначения
var Roles = []string{"diagnostic", "labo", "pharmacie", "it"}

type CollabRoom struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex;not null"` // 6 символов, генерируется сервером
	OwnerID   uuid.UUID `gorm:"type:uuid"`
	Status    string    `gorm:"default:'waiting';check:status IN ('waiting','running','finished')"`
	StartedAt time.Time
	ExpiresAt string // ISO8601

	// Связи
	Members []CollabMember `gorm:"foreignKey:RoomID"`
}

type CollabMember struct {
	ID     uint      `gorm:"primaryKey"`
	RoomID uint      `gorm:"not null;uniqueIndex:uix_room_user;uniqueIndex:uix_room_role"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uix_room_user"`
	// пусто = роль не назначена; частичный индекс держит занятую роль
	// уникальной в пределах комнаты
	Role     string `gorm:"uniqueIndex:uix_room_role,where:role <> ''"`
	JoinedAt time.Time

	// Связи
	User User `gorm:"foreignKey:UserID"`
}
