package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frankieli/bingo_live/internal/config"
	bingoHttp "github.com/frankieli/bingo_live/internal/modules/bingo/adapter/http"
	bingoLocal "github.com/frankieli/bingo_live/internal/modules/bingo/adapter/local"
	bingoRedis "github.com/frankieli/bingo_live/internal/modules/bingo/adapter/redis"
	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	bingoDB "github.com/frankieli/bingo_live/internal/modules/bingo/repository/db"
	bingoMemory "github.com/frankieli/bingo_live/internal/modules/bingo/repository/memory"
	"github.com/frankieli/bingo_live/internal/modules/bingo/usecase"
	gatewayHttp "github.com/frankieli/bingo_live/internal/modules/gateway/adapter/http"
	"github.com/frankieli/bingo_live/internal/modules/gateway/auth"
	"github.com/frankieli/bingo_live/internal/modules/gateway/ws"
	"github.com/frankieli/bingo_live/pkg/logger"
)

func main() {
	pprofPort := flag.String("pprof-port", "", "Port to run pprof server on (e.g., 6060)")
	background := flag.Bool("d", false, "Run in background mode (disable console logging)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.LoadBingoConfig()

	if cfg.Server.LogFile != "" {
		logger.InitWithFile(cfg.Server.LogFile, cfg.Server.LogLevel, "json", !*background)
	} else {
		logger.Init(logger.Config{Level: cfg.Server.LogLevel, Format: "console"})
	}

	if *pprofPort != "" {
		go func() {
			addr := "localhost:" + *pprofPort
			logger.InfoGlobal().Str("addr", addr).Msg("Starting pprof server")
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.ErrorGlobal().Err(err).Msg("Failed to start pprof server")
			}
		}()
	}

	logger.InfoGlobal().Msg("Starting Bingo Live server...")

	// Infrastructure

	node, err := snowflake.NewNode(int64(cfg.Settings.SnowflakeNode))
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to create snowflake node")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
	defer rdb.Close()

	// Repositories

	var (
		stateRepo   domain.GameStateRepository
		gameRepo    domain.GameRepository
		sessionRepo domain.SessionRepository
		winnerRepo  domain.WinnerRepository
		potRepo     domain.SnowballPotRepository
		historyRepo domain.PotHistoryRepository
	)

	if cfg.RepoType == "memory" {
		games := bingoMemory.NewGameRepository()
		states := bingoMemory.NewGameStateRepository()
		stateRepo = states
		gameRepo = games
		sessionRepo = bingoMemory.NewSessionRepository()
		winnerRepo = bingoMemory.NewWinnerRepository()
		potRepo = bingoMemory.NewSnowballPotRepository(games, states)
		historyRepo = bingoMemory.NewPotHistoryRepository()
		logger.InfoGlobal().Msg("Repository: Memory")
	} else {
		dbConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

		gormDB, err := gorm.Open(postgres.Open(dbConnStr), &gorm.Config{
			Logger: logger.NewGormLogger(),
		})
		if err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to connect to database")
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to get database instance")
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to ping database")
		}

		if err := bingoDB.AutoMigrate(gormDB); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to run migrations")
		}

		stateRepo = bingoDB.NewGameStateRepository(gormDB)
		gameRepo = bingoDB.NewGameRepository(gormDB)
		sessionRepo = bingoDB.NewSessionRepository(gormDB)
		winnerRepo = bingoDB.NewWinnerRepository(gormDB)
		potRepo = bingoDB.NewSnowballPotRepository(gormDB)
		historyRepo = bingoDB.NewPotHistoryRepository(gormDB)
		logger.InfoGlobal().Msg("Repository: Database")
	}

	// Gateway

	wsManager := ws.NewManager()
	go wsManager.Run()

	localNotifier := bingoLocal.NewWSNotifier(stateRepo, wsManager)

	pubsubCtx, pubsubCancel := context.WithCancel(context.Background())
	defer pubsubCancel()

	var notifier domain.Notifier = localNotifier
	if err := rdb.Ping(pubsubCtx).Err(); err != nil {
		logger.WarnGlobal().Err(err).Msg("Redis unavailable, state pushes stay instance-local")
	} else {
		pubsub := bingoRedis.NewPubSubNotifier(rdb, localNotifier)
		go pubsub.Run(pubsubCtx)
		notifier = pubsub
		logger.InfoGlobal().Msg("Redis pub/sub notifier enabled")
	}

	// Use cases

	controlUC := usecase.NewControlUseCase(stateRepo, notifier)
	potUC := usecase.NewPotUseCase(sessionRepo, gameRepo, winnerRepo, potRepo, historyRepo, node)
	gameUC := usecase.NewGameUseCase(stateRepo, gameRepo, sessionRepo, controlUC, potUC, notifier, node)
	callUC := usecase.NewCallUseCase(stateRepo, winnerRepo, controlUC, notifier)
	stageUC := usecase.NewStageUseCase(stateRepo, gameRepo, winnerRepo, potRepo, controlUC, potUC, notifier, node)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Duration)

	bingoHandler := bingoHttp.NewHandler(gameUC, controlUC, callUC, stageUC, potUC)
	wsHandler := gatewayHttp.NewHandler(wsManager, localNotifier)

	// Router

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())

	api := router.Group("/api")
	{
		host := api.Group("/host")
		host.Use(tokens.GinMiddleware())
		bingoHandler.RegisterHostRoutes(host)

		bingoHandler.RegisterViewerRoutes(api.Group("/viewer"))
	}

	router.GET("/ws", func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	logger.InfoGlobal().
		Str("http_port", cfg.Server.HTTPPort).
		Str("ws_url", fmt.Sprintf("ws://localhost:%s/ws?game_id=GAME_ID", cfg.Server.HTTPPort)).
		Msg("Bingo Live server running")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalGlobal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoGlobal().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("HTTP server forced to shutdown")
	}

	pubsubCancel()
	wsManager.Shutdown()

	logger.InfoGlobal().Msg("Server exited properly")
}
