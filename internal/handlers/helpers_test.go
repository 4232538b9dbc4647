package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/handlers"
	"github.com/mission-vitale/backend/internal/server"
	ws "github.com/mission-vitale/backend/internal/websocket"
	"github.com/mission-vitale/backend/pkg/auth"
)

var dbCounter int64

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *database.Database
	gdb    *gorm.DB
	jwt    *auth.JWTManager
	hub    *ws.Hub
	locks  *ws.LockTable
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))

	db := database.NewDatabase(gdb)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	hub := ws.NewHub()
	locks := ws.NewLockTable()

	r := gin.New()
	server.APIEndpoints(r, jwtMgr, nil,
		handlers.NewAuthHandler(db, jwtMgr, nil),
		handlers.NewMissionHandler(db),
		handlers.NewPuzzleHandler(db),
		handlers.NewGameHandler(db),
		handlers.NewCollabHandler(db, hub, locks, jwtMgr),
	)

	return &testEnv{t: t, router: r, db: db, gdb: gdb, jwt: jwtMgr, hub: hub, locks: locks}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(username string) string {
	e.t.Helper()

	w := e.do(http.MethodPost, "/users/register", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/users/login", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(e.t, resp.AccessToken)
	return resp.AccessToken
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}
