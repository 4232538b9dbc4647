package server

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mission-vitale/backend/internal/database"
	"github.com/mission-vitale/backend/internal/handlers"
	applog "github.com/mission-vitale/backend/internal/log"
	ws "github.com/mission-vitale/backend/internal/websocket"
	"github.com/mission-vitale/backend/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Locks      *ws.LockTable
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env not found, using environment variables")
		}
	}

	applog.Init(os.Getenv("APP_ENV"))

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	hub := ws.NewHub()
	locks := ws.NewLockTable()

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	missionH := handlers.NewMissionHandler(dbConn)
	puzzleH := handlers.NewPuzzleHandler(dbConn)
	gameH := handlers.NewGameHandler(dbConn)
	collabH := handlers.NewCollabHandler(dbConn, hub, locks, jwtMgr)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, missionH, puzzleH, gameH, collabH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Locks:      locks,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("server starting")
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
}
