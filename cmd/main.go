package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examforge/config"
	"github.com/lshigami/examforge/database"
	_ "github.com/lshigami/examforge/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/examforge/internal/controller/admin"
	userctrl "github.com/lshigami/examforge/internal/controller/user"
	"github.com/lshigami/examforge/internal/logger"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/lshigami/examforge/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ExamForge API
// @version 1.0
// @description API for exam digitization via AI extraction and hybrid deterministic/AI grading of student submissions.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://example.com/support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
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
		),

		// Repositories Layer
		fx.Provide(
			repository.NewClassRepository,
			repository.NewAssignmentRepository,
			repository.NewQuestionRepository,
			repository.NewProgressRepository,
			repository.NewSubmissionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiClient,
			service.NewClassService,
			service.NewSectionService,
			service.NewAssignmentService,
			service.NewQuestionService,
			service.NewImportService,
			service.NewGradingService,
			service.NewSubmissionService,
			service.NewReconcileService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminClassController,
			adminctrl.NewAdminAssignmentController,
			adminctrl.NewAdminImportController,
			adminctrl.NewAdminGradingController,
			userctrl.NewUserAssignmentController,
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
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route Gin's request log through zerolog so the whole app shares one sink.
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
		AllowOrigins:     []string{"*"}, // Be more specific in production
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
	adminClassCtrl *adminctrl.AdminClassController,
	adminAssignmentCtrl *adminctrl.AdminAssignmentController,
	adminImportCtrl *adminctrl.AdminImportController,
	adminGradingCtrl *adminctrl.AdminGradingController,
	userAssignmentCtrl *userctrl.UserAssignmentController,
) {
	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/classes", adminClassCtrl.CreateClass)
		adminAPIGroup.GET("/classes", adminClassCtrl.GetClasses)
		adminAPIGroup.DELETE("/classes/:class_id", adminClassCtrl.DeleteClass)

		adminAPIGroup.POST("/classes/:class_id/assignments", adminAssignmentCtrl.CreateAssignment)
		adminAPIGroup.GET("/classes/:class_id/assignments", adminAssignmentCtrl.GetAssignmentsByClass)
		adminAPIGroup.GET("/assignments/:assignment_id", adminAssignmentCtrl.GetAssignmentDetail)
		adminAPIGroup.DELETE("/assignments/:assignment_id", adminAssignmentCtrl.DeleteAssignment)

		adminAPIGroup.POST("/assignments/:assignment_id/questions", adminAssignmentCtrl.CreateQuestion)
		adminAPIGroup.PUT("/questions/:question_id", adminAssignmentCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/questions/:question_id", adminAssignmentCtrl.DeleteQuestion)

		adminAPIGroup.POST("/assignments/:assignment_id/import", adminImportCtrl.ImportQuestions)
		adminAPIGroup.GET("/assignments/:assignment_id/sections", adminImportCtrl.GetSections)
		adminAPIGroup.POST("/assignments/:assignment_id/sections/reorder", adminImportCtrl.ReorderSection)
		adminAPIGroup.PUT("/sections/content", adminImportCtrl.UpdateSectionContent)

		adminAPIGroup.POST("/submissions/:submission_id/grade", adminGradingCtrl.GradeSubmission)
		adminAPIGroup.POST("/reconcile", adminGradingCtrl.Reconcile)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/assignments/:assignment_id", userAssignmentCtrl.GetAssignmentDetail)
		userAPIGroup.POST("/assignments/:assignment_id/submissions", userAssignmentCtrl.SubmitAssignment)
		userAPIGroup.GET("/assignments/:assignment_id/my-submissions", userAssignmentCtrl.GetMySubmissions)
		userAPIGroup.GET("/submissions/:submission_id", userAssignmentCtrl.GetSubmissionDetail)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ExamForge API server starting on port %s", cfg.Server.Port)
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
		&model.Class{},
		&model.Assignment{},
		&model.Question{},
		&model.AssignmentProgress{},
		&model.Submission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
