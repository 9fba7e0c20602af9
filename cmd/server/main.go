package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/config"
	"github.com/benbeisheim/chess-ai-backend/internal/controller"
	"github.com/benbeisheim/chess-ai-backend/internal/engine"
	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	searcher := engine.NewSearcher(searchOptions(cfg))
	gameManager := service.NewGameManager(searcher)
	gameService := service.NewGameService(gameManager, service.GameDefaults{
		Depth:         cfg.Depth,
		Strict:        cfg.Strict,
		SearchTimeout: cfg.SearchTimeout,
	})

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(gameService.HasGame),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         cfg.Origins(),
		}))

	// Set up REST routes
	gameController.RegisterRoutes(app.Group("/api", middleware.EnsurePlayerID()))

	log.Infow("starting server",
		"addr", cfg.Addr,
		"depth", cfg.Depth,
		"branchCap", cfg.BranchCap,
		"strict", cfg.Strict,
		"workers", cfg.Workers)
	log.Fatal(app.Listen(cfg.Addr))
}

func searchOptions(cfg config.Config) engine.Options {
	opts := engine.Options{
		BranchCap: cfg.BranchCap,
		Workers:   cfg.Workers,
		SafeRoot:  cfg.Strict,
	}
	if cfg.Randomize {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	}
	return opts
}
