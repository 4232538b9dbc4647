package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/handlers/dto"
	"github.com/mission-vitale/backend/internal/models"
)

type MissionHandler struct {
	db *database.Database
}

func NewMissionHandler(db *database.Database) *MissionHandler {
	return &MissionHandler{db: db}
}

// CreateMission создает новую миссию
func (h *MissionHandler) CreateMission(c *gin.Context) {
	var req dto.MissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "facile"
	}
	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}

	mission := &models.Mission{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  difficulty,
		MaxScore:    maxScore,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateMission(mission); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create mission"})
		return
	}

	c.JSON(http.StatusCreated, formatMissionResponse(mission))
}

// ListMissions список миссий, новые первыми
func (h *MissionHandler) ListMissions(c *gin.Context) {
	missions, err := h.db.ListMissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list missions"})
		return
	}

	result := make([]gin.H, len(missions))
	for i := range missions {
		result[i] = formatMissionResponse(&missions[i])
	}

	c.JSON(http.StatusOK, gin.H{"missions": result})
}

// ListMissionPuzzles энигмы миссии без решений
func (h *MissionHandler) ListMissionPuzzles(c *gin.Context) {
	missionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	if _, err := h.db.GetMission(uint(missionID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}

	puzzles, err := h.db.ListMissionPuzzles(uint(missionID))
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

func formatMissionResponse(mission *models.Mission) gin.H {
	return gin.H{
		"id":          mission.ID,
		"title":       mission.Title,
		"description": mission.Description,
		"difficulty":  mission.Difficulty,
		"max_score":   mission.MaxScore,
		"created_at":  mission.CreatedAt,
	}
}
