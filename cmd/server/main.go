package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/api/handlers"
	"github.com/maheshrc27/postgate/internal/api/middleware"
	job "github.com/maheshrc27/postgate/internal/jobs"
	"github.com/maheshrc27/postgate/internal/queue"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()
	if err := logging.InitLogger(cfg.Logging); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.GetLogger()

	if envErr != nil {
		log.Warn("no .env file loaded", zap.Error(envErr))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatal("database is unreachable", zap.Error(err))
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatal("failed to apply schema", zap.Error(err))
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error(), "code": "internal_error"})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	operatorRepo := repository.NewOperatorRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)
	researchRepo := repository.NewResearchRepository(db)

	r2Service := service.NewR2Service(*cfg)
	operatorService := service.NewOperatorService(operatorRepo)
	credentialService := service.NewCredentialService(credentialRepo, cfg.SecretKey)
	settingsService := service.NewSettingsService(settingsRepo, *cfg)
	metricoolService := service.NewMetricoolService(*cfg)
	channelResolver := service.NewChannelResolver(metricoolService)
	channelService := service.NewChannelService(metricoolService, channelResolver, credentialService, settingsService, *cfg)
	postService := service.NewPostService(db, postRepo, mediaAssetRepo, r2Service)
	publishService := service.NewPublishService(postService, credentialService, settingsService, channelResolver, metricoolService, attemptRepo, *cfg)
	contentService := service.NewContentService(service.NewAIService(*cfg), credentialService, researchRepo, *cfg)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	operator := handlers.NewOperatorHandler(operatorService)
	api.Get("/operator", operator.GetOperatorInfo)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings", settings.GetSettingsInfo)
	api.Put("/settings", settings.UpdateSettings)

	credentials := handlers.NewCredentialHandler(credentialService)
	api.Get("/credentials", credentials.ListCredentials)
	api.Put("/credentials", credentials.SetCredential)
	api.Delete("/credentials/:name", credentials.RemoveCredential)

	channels := handlers.NewChannelHandler(channelService)
	api.Get("/workspaces", channels.ListWorkspaces)
	api.Get("/channels", channels.ListChannels)

	post := handlers.NewPostHandler(postService, publishService, client)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Patch("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/approve", post.ApprovePost)
	api.Post("/posts/:id/publish", middleware.RateLimit(rdb, "publish", cfg.RateLimit.PublishPerMinute, time.Minute), post.PublishPost)
	api.Get("/posts/:id/preview", post.PreviewPost)
	api.Post("/posts/:id/schedule", post.SchedulePost)
	api.Get("/posts/:id/attempts", post.ListAttempts)

	content := handlers.NewContentHandler(contentService)
	contentLimit := middleware.RateLimit(rdb, "content", cfg.RateLimit.ContentPerMinute, time.Minute)
	api.Post("/content/generate", contentLimit, content.Generate)
	api.Post("/content/research", contentLimit, content.Research)
	api.Get("/content/research", content.ListResearch)

	// cron jobs
	pruneJob := job.NewResearchPruneJob(researchRepo, cfg.Research.HistoryLimit)
	c := cron.New()
	if err := pruneJob.Register(c, cfg.Research.PruneSchedule); err != nil {
		log.Fatal("invalid research prune schedule", zap.String("schedule", cfg.Research.PruneSchedule), zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	// queue
	publishQueue := queue.NewQueue(publishService)
	worker := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypePublishPost, publishQueue.HandlePublishPostTask)

	go func() {
		log.Info("starting asynq worker")
		if err := worker.Run(mux); err != nil {
			log.Fatal("could not start asynq worker", zap.Error(err))
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()
	log.Info("server is running", zap.String("port", cfg.Port))

	gracefulShutdown(app, worker)
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.GetLogger().Error("failed to close database", zap.Error(err))
		return
	}
	logging.GetLogger().Info("database connection closed")
}

func gracefulShutdown(app *fiber.App, worker *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logging.GetLogger().Info("shutting down server")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logging.GetLogger().Error("failed to shut down server", zap.Error(err))
	}
	worker.Shutdown()

	logging.GetLogger().Info("server shutdown complete")
}
