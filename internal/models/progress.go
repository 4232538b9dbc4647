package models

import (
	"github.com/google/uuid"
	"time"
)

// PlayerMission лучший результат игрока по миссии/энигме.
// Score только растет, Completed не откатывается назад.
type PlayerMission struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uix_user_mission"`
	MissionID uint      `gorm:"not null;uniqueIndex:uix_user_mission"`
	Score     int       `gorm:"default:0"`
	Completed bool      `gorm:"default:false"`
	Date      time.Time
}
