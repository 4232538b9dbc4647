package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/handlers/dto"
	"github.com/mission-vitale/backend/internal/models"
)

type PuzzleHandler struct {
	db *database.Database
}

func NewPuzzleHandler(db *database.Database) *PuzzleHandler {
	return &PuzzleHandler{db: db}
}

// CreatePuzzle создает энигму, payload/solution сохраняются как сырой JSON
func (h *PuzzleHandler) CreatePuzzle(c *gin.Context) {
	var req dto.PuzzleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetMission(req.MissionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}

	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}

	puzzle := &models.Puzzle{
		MissionID: req.MissionID,
		Title:     req.Title,
		Type:      req.Type,
		Payload:   string(req.Payload),
		Solution:  string(req.Solution),
		MaxScore:  maxScore,
		CreatedAt: time.Now(),
	}

	if err := h.db.CreatePuzzle(puzzle); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create puzzle"})
		return
	}

	c.JSON(http.StatusCreated, formatPuzzleResponse(puzzle))
}

// ListPuzzles все энигмы, ?mission_id= фильтрует по миссии
func (h *PuzzleHandler) ListPuzzles(c *gin.Context) {
	var missionID uint
	if raw := c.Query("mission_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
			return
		}
		missionID = uint(parsed)
	}

	puzzles, err := h.db.ListPuzzles(missionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list puzzles"})
		return
	}

	result := make([]gin.H, len(puzzles))
	for i := range puzzles {
		result[i] = formatPuzzleResponse(&puzzles[i])
	}

	c.JSON(http.StatusOK, gin.H{"puzzles": result})
}

// GetPuzzle одна энигма по id
func (h *PuzzleHandler) GetPuzzle(c *gin.Context) {
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puzzle id"})
		return
	}

	puzzle, err := h.db.GetPuzzle(uint(puzzleID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found"})
		return
	}

	c.JSON(http.StatusOK, formatPuzzleResponse(puzzle))
}

// formatPuzzleResponse отдает энигму без решения
func formatPuzzleResponse(puzzle *models.Puzzle) gin.H {
	var payload interface{}
	if puzzle.Payload != "" {
		if err := json.Unmarshal([]byte(puzzle.Payload), &payload); err != nil {
			payload = gin.H{}
		}
	}

	return gin.H{
		"id":         puzzle.ID,
		"mission_id": puzzle.MissionID,
		"title":      puzzle.Title,
		"type":       puzzle.Type,
		"payload":    payload,
		"max_score":  puzzle.MaxScore,
		"created_at": puzzle.CreatedAt,
	}
}
