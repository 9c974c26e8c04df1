package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/database"
	_ "github.com/lshigami/Margays/docs" // Swagger docs
	"github.com/lshigami/Margays/internal/controller"
	adminctrl "github.com/lshigami/Margays/internal/controller/admin"
	userctrl "github.com/lshigami/Margays/internal/controller/user"
	"github.com/lshigami/Margays/internal/logger"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Timed Assessment API
// @version 1.0
// @description API for timed online assessments: test windows, attempt admission, exam-clock enforced submission, and marking.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTestRepository,
			repository.NewDomainRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewScheduleService,
			service.NewAdmissionService,
			service.NewSubmissionService,
			service.NewScoringService,
			service.NewStatusService,
			service.NewAdminTestService,
			service.NewGradingAssistService,
		),

		fx.Provide(
			userctrl.NewExamController,
			adminctrl.NewAdminController,
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

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", controller.HeaderStudentID, controller.HeaderRole},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	examCtrl *userctrl.ExamController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api/v1", controller.Principal())
	{
		api.GET("/tests", examCtrl.GetTests)
		api.GET("/tests/:test_id/status", examCtrl.GetTestStatus)
		api.POST("/tests/:test_id/attempts/start", examCtrl.StartAttempt)
		api.POST("/tests/:test_id/attempts/finish", examCtrl.FinishAttempt)
		api.POST("/answers", examCtrl.SubmitAnswer)
		api.GET("/my/attempts", examCtrl.GetMyAttempts)
	}

	adminAPI := router.Group("/api/v1/admin", controller.Principal(), controller.RequireStaff())
	{
		adminAPI.POST("/tests", adminCtrl.CreateTest)
		adminAPI.GET("/tests/:test_id", adminCtrl.GetTest)
		adminAPI.POST("/answers/:answer_id/mark", adminCtrl.AddMark)
		adminAPI.PUT("/answers/:answer_id/mark", adminCtrl.EditMark)
		adminAPI.GET("/answers/:answer_id/suggested-mark", adminCtrl.SuggestMark)
		adminAPI.POST("/scores/compute", adminCtrl.ComputeTotal)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assessment API server starting on port %s", cfg.Server.Port)
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
		&model.Domain{},
		&model.Question{},
		&model.Test{},
		&model.Attempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
