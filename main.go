package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gameserver-hub/config"
	"gameserver-hub/handlers"
	"gameserver-hub/middleware"
	"gameserver-hub/repositories"
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, err := repositories.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to initialize database:", err)
	}

	engine := services.NewEngine(repositories.New(db))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := engine.Missions.StartExpiryScheduler(cfg.MissionSweepInterval)
	if err != nil {
		log.Fatal("failed to start mission scheduler:", err)
	}
	defer sched.Shutdown()

	// Rate limiting is optional; without Redis every request is let through.
	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️  Redis at %s unreachable, rate limiting disabled: %v", cfg.RedisAddr, err)
		} else {
			limiter = middleware.NewRateLimiter(rdb)
			defer rdb.Close()
		}
	}
	rewardLimit := limiter.Limit("rewards", cfg.RateLimitPerMinute, time.Minute)

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayServiceToken))

	origins := strings.Join(cfg.Origins(), ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID, Retry-After",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	if cfg.AuthServiceURL != "" {
		authClient := services.NewAuthServiceClient(cfg.AuthServiceURL, cfg.GatewayServiceToken)
		handlers.SetupNotificationStream(app, engine.Notifications, authClient)
	} else {
		log.Println("⚠️  AUTH_SERVICE_URL not set, notification stream disabled")
	}

	// The gateway forwards paths like /api/v1/hub/s/user/progress -> /user/progress
	secured := app.Group("/", middleware.UserContextMiddleware())
	handlers.SetupProgressionRoutes(secured, engine, rewardLimit)
	handlers.SetupMissionRoutes(secured, engine, rewardLimit)
	handlers.SetupServerRoutes(secured, engine, rewardLimit)
	handlers.SetupStoreRoutes(secured, engine, rewardLimit)
	handlers.SetupNotificationRoutes(secured, engine.Notifications)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Mission expiry sweep every %s", cfg.MissionSweepInterval)
	log.Printf("✅ CORS configured for origins: %s", origins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
