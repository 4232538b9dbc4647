package models

import "time"

// Типы энигм, которые принимает API
const (
	PuzzleQuiz     = "QUIZ"
	PuzzleCode     = "CODE"
	PuzzleDND      = "DND"
	PuzzleSchema   = "SCHEMA"
	PuzzleImgQuiz  = "IMG_QUIZ"
	PuzzleImgRecon = "IMG_RECON"
)

type Puzzle struct {
	ID        uint   `gorm:"primaryKey"`
	MissionID uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Type      string `gorm:"not null"`
	// payload и solution хранятся как сырой JSON, структура зависит от типа
	Payload   string `gorm:"type:jsonb;not null"`
	Solution  string `gorm:"type:jsonb"`
	MaxScore  int    `gorm:"default:100"`
	CreatedAt time.Time

	// Связи
	Mission Mission `gorm:"foreignKey:MissionID"`
}
