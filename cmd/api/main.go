package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/config"
	"github.com/meskel-dev/bethel-admin-api/internal/database"
	"github.com/meskel-dev/bethel-admin-api/internal/handler"
	"github.com/meskel-dev/bethel-admin-api/internal/middleware"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
	"github.com/meskel-dev/bethel-admin-api/internal/router"
	"github.com/meskel-dev/bethel-admin-api/internal/service"
	cloud "github.com/meskel-dev/bethel-admin-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Church{},
		&models.Department{},
		&models.Profile{},
		&models.ProfileDepartment{},
		&models.Member{},
		&models.ActivityLog{},
		&models.GlobalSettings{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	churchRepo := repository.NewChurchRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streamService := service.NewActivityStreamService(redisClient, cfg.StreamChannelBase, natsConn, logger)
	streamService.Start(ctx)

	recorder := service.NewActivityRecorder(activityRepo, profileRepo, streamService, logger)
	feedService := service.NewActivityFeedService(activityRepo, redisClient, cfg.FeedCacheTTL, logger)
	authService := service.NewAuthService(profileRepo, settingsRepo, recorder, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.ResetTokenTTL, logger)
	adminUserService := service.NewAdminUserService(profileRepo, validate, recorder, logger)
	churchService := service.NewChurchService(churchRepo, validate, recorder, logger)
	departmentService := service.NewDepartmentService(departmentRepo, validate, recorder, logger)
	memberService := service.NewMemberService(memberRepo, validate, recorder, logger)
	settingsService := service.NewSettingsService(settingsRepo, recorder, logger)

	deps := router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		ActivityHandler:   handler.NewActivityHandler(feedService, streamService, logger),
		AdminUserHandler:  handler.NewAdminUserHandler(adminUserService, logger),
		ChurchHandler:     handler.NewChurchHandler(churchService, logger),
		DepartmentHandler: handler.NewDepartmentHandler(departmentService, logger),
		MemberHandler:     handler.NewMemberHandler(memberService, logger),
		SettingsHandler:   handler.NewSettingsHandler(settingsService, logger),
		DB:                db,
		JWT:               middleware.JWTProtected(cfg.JWTSecret, authService),
		Maintenance:       middleware.Maintenance(settingsRepo, logger),
	}

	// Avatar storage is optional; without Cloudinary credentials the upload
	// routes simply stay unmounted.
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploadService := service.NewUploadService(uploader, profileRepo, recorder, cfg.MaxUploadMB, logger)
		deps.UploadHandler = handler.NewUploadHandler(uploadService, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(ctx, app)
}

func waitForShutdown(ctx context.Context, app *fiber.App) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
