package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads variables from a .env file in development
	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/config"
	"github.com/accuaim/accuaim-server/internal/database"
	"github.com/accuaim/accuaim-server/internal/handler"
	"github.com/accuaim/accuaim-server/internal/middleware"
	"github.com/accuaim/accuaim-server/internal/queue"
	"github.com/accuaim/accuaim-server/internal/repository"
	"github.com/accuaim/accuaim-server/internal/router"
	"github.com/accuaim/accuaim-server/internal/stats"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the leaderboard cache and the auth rate limiter.
	// Both middlewares pass requests through untouched when the
	// client is nil, so a missing Redis only loses the extras.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiterMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// The consumer drains session.finished events into the practice
	// log. It reconnects on its own, so a broker outage at startup
	// is not fatal.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("[QUEUE] consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sessions := repository.NewSessionRepo(db)
	shots := repository.NewShotRepo(db)
	guard := repository.NewGuard(db)
	engine := stats.NewEngine(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	acctH := handler.NewAccountHandler(cfg, users, tokens)
	sessH := handler.NewSessionHandler(sessions, shots, guard, engine)
	shotH := handler.NewShotHandler(shots, guard, engine)
	statsH := handler.NewStatsHandler(engine)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, limiterMW)
	router.RegisterAPI(e, cfg.JWTSecret, authH, acctH, sessH, shotH, statsH, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
