// @title StudyGen API
// @version 1.0
// @description AI-generated study notes, illustrations, and quizzes for any topic.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"studygen/internal/adapter"
	"studygen/internal/adapter/imagegen"
	"studygen/internal/adapter/llm"
	"studygen/internal/cache"
	"studygen/internal/config"
	"studygen/internal/handler"
	"studygen/internal/logger"
	"studygen/internal/middleware"
	"studygen/internal/service"

	_ "studygen/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Text generation client
	textGen, err := llm.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.TextModel)
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}
	appLogger.Info("Text generator initialized", zap.String("model", cfg.OpenAI.TextModel))

	// Image generation client
	imageGen, err := imagegen.NewDALLEGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.ImageModel)
	if err != nil {
		appLogger.Fatal("Failed to create image generator", zap.Error(err))
	}
	appLogger.Info("Image generator initialized", zap.String("model", cfg.OpenAI.ImageModel))

	// Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	studyService := service.NewStudyService(textGen, imageGen, cacheAdapter, cfg)
	sessionService := service.NewSessionService(cacheAdapter, cfg)
	tokenService, err := service.NewTokenService(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create TokenService", zap.Error(err))
	}

	// Initialize handlers
	studyHandler := handler.NewStudyHandler(studyService, sessionService, tokenService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	apiGroup := app.Group("/api")

	// Generation routes (public)
	apiGroup.Post("/outline", studyHandler.GenerateOutline)
	apiGroup.Post("/study-packs", studyHandler.CreateStudyPack)

	// Session routes (guarded by the session token issued at pack creation)
	sessionGroup := apiGroup.Group("/sessions/:id", middleware.SessionGuard(tokenService))
	sessionGroup.Get("/", studyHandler.GetSession)
	sessionGroup.Delete("/", studyHandler.DeleteSession)
	sessionGroup.Put("/answers", studyHandler.RecordAnswer)
	sessionGroup.Post("/submit", studyHandler.SubmitQuiz)
	sessionGroup.Post("/reset", studyHandler.ResetSession)
	sessionGroup.Get("/pdf/:kind", studyHandler.DownloadPDF)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
