package models

import "time"

type Mission struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text;default:''"`
	Difficulty  string `gorm:"default:'facile'"`
	MaxScore    int    `gorm:"default:100"`
	CreatedAt   time.Time

	// Связи
	Puzzles []Puzzle `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE"`
}
