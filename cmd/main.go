package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khanhvu/rescore/config"
	"github.com/khanhvu/rescore/database"
	_ "github.com/khanhvu/rescore/docs" // Swagger docs - auto-generated
	"github.com/khanhvu/rescore/internal/cache"
	adminctrl "github.com/khanhvu/rescore/internal/controller/admin"
	userctrl "github.com/khanhvu/rescore/internal/controller/user"
	"github.com/khanhvu/rescore/internal/logger"
	"github.com/khanhvu/rescore/internal/model"
	"github.com/khanhvu/rescore/internal/provider"
	"github.com/khanhvu/rescore/internal/repository"
	"github.com/khanhvu/rescore/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Score Reconciliation API
// @version 1.0
// @description Ingests exam attempts from the provider and serves reconciled scores, reviews and leaderboards under retroactive answer-key corrections.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			cache.New,
			NewProviderClient,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewAttemptRepository,
			repository.NewResponseRepository,
			repository.NewOverlayRepository,
			repository.NewBonusRepository,
			repository.NewAdjustmentRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewOverlayService,
			service.NewReviewService,
			service.NewLeaderboardService,
			service.NewSyncService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminController,
			userctrl.NewReviewController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewProviderClient(cfg *config.Config) provider.Client {
	return provider.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.Token)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminController,
	reviewCtrl *userctrl.ReviewController,
) {
	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.PUT("/questions/:provider_question_id/answer-key", adminCtrl.SetAnswerKeyOverride)
		adminAPIGroup.PUT("/questions/:provider_question_id/bonus", adminCtrl.ToggleBonus)
		adminAPIGroup.PUT("/tests/:provider_test_id/accounts/:account_id/adjustment", adminCtrl.SetScoreAdjustment)
		adminAPIGroup.POST("/sync", adminCtrl.RunSync)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/attempts/:attempt_id/questions/:provider_question_id", reviewCtrl.GetQuestionView)
		userAPIGroup.GET("/attempts/:attempt_id/summary", reviewCtrl.GetAttemptSummary)
		userAPIGroup.GET("/tests/:provider_test_id/leaderboard", reviewCtrl.GetLeaderboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Reconciliation API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Attempt{},
		&model.RawResponse{},
		&model.AnswerKeyChange{},
		&model.BonusQuestion{},
		&model.ScoreAdjustment{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
