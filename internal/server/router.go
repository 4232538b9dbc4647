package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mission-vitale/backend/internal/handlers"
	"github.com/mission-vitale/backend/internal/metrics"
	"github.com/mission-vitale/backend/internal/middleware"
	"github.com/mission-vitale/backend/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	missionH *handlers.MissionHandler,
	puzzleH *handlers.PuzzleHandler,
	gameH *handlers.GameHandler,
	collabH *handlers.CollabHandler,
) {
	r.Use(metrics.GinMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	users := r.Group("/users")
	{
		users.POST("/register", authH.Register)
		users.POST("/login", authH.Login)
	}

	authorized := r.Group("/", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		authorized.POST("/users/logout", authH.Logout)
		authorized.GET("/users", authH.ListUsers)

		// Missions & puzzles
		authorized.POST("/missions", missionH.CreateMission)
		authorized.GET("/missions", missionH.ListMissions)
		authorized.GET("/missions/:id/puzzles", missionH.ListMissionPuzzles)

		authorized.POST("/game/puzzles", puzzleH.CreatePuzzle)
		authorized.GET("/game/puzzles", puzzleH.ListPuzzles)
		authorized.GET("/game/puzzles/:id", puzzleH.GetPuzzle)

		// Solo: таймер и проверка ответов
		authorized.POST("/game/session", gameH.CreateSession)
		authorized.GET("/game/session/current", gameH.GetCurrentSession)
		authorized.POST("/game/submit", gameH.SubmitAnswer)

		// Collaboration
		authorized.POST("/collab/rooms", collabH.CreateRoom)
		authorized.GET("/collab/rooms/:code", collabH.GetRoom)
		authorized.POST("/collab/rooms/:code/join", collabH.JoinRoom)
		authorized.GET("/collab/rooms/:code/members", collabH.ListMembers)
	}

	// Websocket сам проверяет токен из query
	r.GET("/collab/ws/:code", collabH.HandleWebSocket)
}
