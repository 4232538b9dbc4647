package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mission-vitale/backend/internal/handlers/dto"
	"github.com/mission-vitale/backend/internal/models"
)

func (e *testEnv) userID(token string) uuid.UUID {
	e.t.Helper()
	claims, err := e.jwt.Verify(token)
	require.NoError(e.t, err)
	id, err := uuid.Parse(claims.Subject)
	require.NoError(e.t, err)
	return id
}

func createMission(t *testing.T, env *testEnv, token string) uint {
	t.Helper()
	w := env.do(http.MethodPost, "/missions", token, gin.H{"title": "Mission Vitale"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &resp)
	return resp.ID
}

func createQuizPuzzle(t *testing.T, env *testEnv, token string, missionID uint) uint {
	t.Helper()
	w := env.do(http.MethodPost, "/game/puzzles", token, gin.H{
		"mission_id": missionID,
		"title":      "Diagnostic du patient",
		"type":       models.PuzzleQuiz,
		"payload":    gin.H{"question": "Quels symptômes ?", "options": []string{"fièvre", "toux", "vertige"}},
		"solution":   gin.H{"correct": []int{0, 2}},
		"max_score":  100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &resp)
	return resp.ID
}

func startSession(t *testing.T, env *testEnv, token string, duration int) {
	t.Helper()
	w := env.do(http.MethodPost, "/game/session", token, gin.H{"duration_seconds": duration})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func submit(t *testing.T, env *testEnv, token string, puzzleID uint, answer gin.H) (int, dto.SubmissionResponse) {
	t.Helper()
	w := env.do(http.MethodPost, "/game/submit", token, gin.H{"puzzle_id": puzzleID, "answer": answer})
	if w.Code != http.StatusOK {
		return w.Code, dto.SubmissionResponse{}
	}
	var resp dto.SubmissionResponse
	decodeBody(t, w, &resp)
	return w.Code, resp
}

func TestCreateSessionDefaults(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")

	w := env.do(http.MethodPost, "/game/session", token, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ExpiresAt string `json:"expires_at"`
	}
	decodeBody(t, w, &resp)

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(1200*time.Second), expires, time.Minute)

	// current возвращает ту же сессию
	w = env.do(http.MethodGet, "/game/session/current", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCurrentSessionMissing(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")

	w := env.do(http.MethodGet, "/game/session/current", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitWithoutSessionForbidden(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)
	puzzleID := createQuizPuzzle(t, env, token, missionID)

	code, _ := submit(t, env, token, puzzleID, gin.H{"selected": []int{0, 2}})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestSubmitWithExpiredSessionForbidden(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)
	puzzleID := createQuizPuzzle(t, env, token, missionID)

	// сессия с истекшим сроком вставляется напрямую
	session := &models.GameSession{
		UserID:    env.userID(token),
		StartedAt: time.Now().UTC().Add(-time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Minute).Format(time.RFC3339),
	}
	require.NoError(t, env.db.CreateGameSession(session))

	code, _ := submit(t, env, token, puzzleID, gin.H{"selected": []int{0, 2}})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestSubmitQuizFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)
	puzzleID := createQuizPuzzle(t, env, token, missionID)
	startSession(t, env, token, 1200)

	// точный набор ответов
	code, resp := submit(t, env, token, puzzleID, gin.H{"selected": []int{2, 0}})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Correct)
	assert.Equal(t, 100, resp.EarnedScore)
	assert.Equal(t, "Bonne(s) réponse(s): 2/2", resp.Feedback)

	// частичный ответ оценивается, но прогресс не откатывается
	code, resp = submit(t, env, token, puzzleID, gin.H{"selected": []int{0}})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Correct)
	assert.Equal(t, 50, resp.EarnedScore)

	progress, err := env.db.GetProgress(env.userID(token), puzzleID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Score)
	assert.True(t, progress.Completed)
}

func TestSubmitCodeNormalization(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)

	w := env.do(http.MethodPost, "/game/puzzles", token, gin.H{
		"mission_id": missionID,
		"title":      "Code du coffre",
		"type":       models.PuzzleCode,
		"payload":    gin.H{"prompt": "Entrez le code"},
		"solution":   gin.H{"expected": "Hello"},
		"max_score":  50,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	decodeBody(t, w, &created)

	startSession(t, env, token, 1200)

	// по умолчанию регистр игнорируется, пробелы по краям срезаются
	code, resp := submit(t, env, token, created.ID, gin.H{"text": "  hello  "})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Correct)
	assert.Equal(t, 50, resp.EarnedScore)
	assert.Equal(t, "Code juste", resp.Feedback)

	code, resp = submit(t, env, token, created.ID, gin.H{"text": "bonjour"})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Correct)
	assert.Zero(t, resp.EarnedScore)
}

func TestSubmitPuzzleNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	startSession(t, env, token, 1200)

	code, _ := submit(t, env, token, 9999, gin.H{"value": "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSubmitUnknownPuzzleType(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)
	startSession(t, env, token, 1200)

	// API такой тип не пропускает, запись вставляется напрямую
	puzzle := &models.Puzzle{
		MissionID: missionID,
		Title:     "Labyrinthe",
		Type:      "MAZE",
		Payload:   `{}`,
		Solution:  `{"path":[1,2,3]}`,
		MaxScore:  100,
	}
	require.NoError(t, env.db.CreatePuzzle(puzzle))

	code, _ := submit(t, env, token, puzzle.ID, gin.H{"path": []int{1, 2, 3}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSubmitMalformedAnswer(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("player")
	missionID := createMission(t, env, token)
	puzzleID := createQuizPuzzle(t, env, token, missionID)
	startSession(t, env, token, 1200)

	// ответ без поля selected
	code, _ := submit(t, env, token, puzzleID, gin.H{"value": "oops"})
	assert.Equal(t, http.StatusBadRequest, code)
}
