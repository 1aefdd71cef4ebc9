package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slowork_backend/database"
	"slowork_backend/internal/auth"
	"slowork_backend/internal/config"
	"slowork_backend/internal/handlers"
	"slowork_backend/internal/logger"
	"slowork_backend/internal/middleware"
	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/routes"
	"slowork_backend/internal/services"
	"slowork_backend/internal/storage"
	"slowork_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	if s3, ok := storageInstance.(*storage.S3Storage); ok {
		if err := s3.EnsureBucket(context.Background()); err != nil {
			logger.Fatal("Failed to prepare storage bucket", "error", err)
		}
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance)

	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers)

	// The local backend builds file URLs under BaseURL; serve them from
	// disk. S3-compatible stores hand out presigned URLs instead.
	if cfg.Storage.Type == "local" && cfg.Storage.BaseURL != "" {
		ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	categoryRepo := repositories.NewCategoryRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, reviewRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	jobService := services.NewJobService(jobRepo, categoryRepo, userRepo, applicationRepo, notificationService)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, userRepo, notificationService)
	submissionService := services.NewSubmissionService(submissionRepo, applicationRepo, jobRepo, notificationService, storageInstance, cfg)
	reviewService := services.NewReviewService(reviewRepo, jobRepo, userRepo, applicationRepo, notificationService)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		CategoryService:     categoryService,
		JobService:          jobService,
		ApplicationService:  applicationService,
		SubmissionService:   submissionService,
		ReviewService:       reviewService,
		NotificationService: notificationService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, serviceContainer.UserService),
		CategoryHandler:     handlers.NewCategoryHandler(baseHandler, serviceContainer.CategoryService),
		JobHandler:          handlers.NewJobHandler(baseHandler, serviceContainer.JobService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, serviceContainer.ApplicationService),
		SubmissionHandler:   handlers.NewSubmissionHandler(baseHandler, serviceContainer.SubmissionService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, serviceContainer.ReviewService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin creates the bootstrap admin account on first start.
// Skipped when the env vars are absent or the account already exists.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
