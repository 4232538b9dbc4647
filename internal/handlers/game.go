package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/game"
	"github.com/mission-vitale/backend/internal/handlers/dto"
	"github.com/mission-vitale/backend/internal/metrics"
	"github.com/mission-vitale/backend/internal/middleware"
	"github.com/mission-vitale/backend/internal/models"
)

const defaultSessionDuration = 1200 // 20 минут

type GameHandler struct {
	db *database.Database
}

func NewGameHandler(db *database.Database) *GameHandler {
	return &GameHandler{db: db}
}

func isoUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// CreateSession запускает таймер одиночной игры
func (h *GameHandler) CreateSession(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duration := req.DurationSeconds
	if duration <= 0 {
		duration = defaultSessionDuration
	}

	now := time.Now().UTC()
	session := &models.GameSession{
		UserID:    userID,
		StartedAt: now,
		ExpiresAt: isoUTC(now.Add(time.Duration(duration) * time.Second)),
	}

	if err := h.db.CreateGameSession(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, formatSessionResponse(session))
}

// GetCurrentSession последняя сессия пользователя
func (h *GameHandler) GetCurrentSession(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	session, err := h.db.GetCurrentGameSession(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session, create one first"})
		return
	}

	c.JSON(http.StatusOK, formatSessionResponse(session))
}

func sessionActive(session *models.GameSession) bool {
	expires, err := time.Parse(time.RFC3339, session.ExpiresAt)
	if err != nil {
		return false
	}
	return time.Now().UTC().Before(expires)
}

// SubmitAnswer проверяет ответ и записывает лучший результат
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.db.GetCurrentGameSession(userID)
	if err != nil || !sessionActive(session) {
		c.JSON(http.StatusForbidden, gin.H{"error": "session expired or missing, restart the countdown"})
		return
	}

	puzzle, err := h.db.GetPuzzle(req.PuzzleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found"})
		return
	}

	var solution map[string]interface{}
	if err := json.Unmarshal([]byte(puzzle.Solution), &solution); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "puzzle has no usable solution"})
		return
	}

	result, err := game.Grade(puzzle.Type, solution, req.Answer, puzzle.MaxScore)
	if err != nil {
		if errors.Is(err, game.ErrUnknownPuzzleType) || errors.Is(err, game.ErrMalformedInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grading failed"})
		return
	}

	metrics.SubmissionsTotal.WithLabelValues(puzzle.Type, strconv.FormatBool(result.Correct)).Inc()

	// прогресс ведется по id энигмы (исторически в той же таблице, что и миссии)
	if _, err := h.db.UpsertProgress(userID, puzzle.ID, result.Score, result.Correct); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save progress"})
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionResponse{
		PuzzleID:    puzzle.ID,
		Correct:     result.Correct,
		EarnedScore: result.Score,
		Feedback:    result.Feedback,
	})
}

func formatSessionResponse(session *models.GameSession) gin.H {
	return gin.H{
		"id":         session.ID,
		"user_id":    session.UserID,
		"started_at": session.StartedAt,
		"expires_at": session.ExpiresAt,
	}
}
