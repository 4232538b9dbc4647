package dto

import "encoding/json"

type MissionCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	MaxScore    int    `json:"max_score"`
}

type PuzzleCreateRequest struct {
	MissionID uint            `json:"mission_id" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=QUIZ CODE DND SCHEMA IMG_QUIZ IMG_RECON"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
	Solution  json.RawMessage `json:"solution"`
	MaxScore  int             `json:"max_score"`
}

type SessionCreateRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

type SubmissionRequest struct {
	PuzzleID uint                   `json:"puzzle_id" binding:"required"`
	Answer   map[string]interface{} `json:"answer" binding:"required"`
}

type SubmissionResponse struct {
	PuzzleID    uint   `json:"puzzle_id"`
	Correct     bool   `json:"correct"`
	EarnedScore int    `json:"earned_score"`
	Feedback    string `json:"feedback,omitempty"`
}
