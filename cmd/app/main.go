package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"focusdraw/internal/api"
	"focusdraw/internal/middleware"
	"focusdraw/internal/repository"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/dates"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.SeedDefaultQuests(context.Background()); err != nil {
		zapLogger.Fatal("Failed to seed quest catalog", zap.Error(err))
	}

	clock := dates.SystemClock{}

	ledgerService := service.NewEntryLedgerService(repo, clock)
	streakService := service.NewStreakService(repo, ledgerService, clock)
	sessionService := service.NewSessionService(repo, ledgerService, streakService, clock)
	questService := service.NewQuestService(repo, clock)
	boostService := service.NewBoostService(repo, ledgerService, clock)
	inviteService := service.NewInviteService(repo, clock)
	studentService := service.NewStudentService(repo, ledgerService, clock)
	parentService := service.NewParentService(repo, clock)

	subjectAuth := auth.NewSubjectAuth(cfg.Auth.JWTSecret, cfg.Auth.Debug)
	authz := middleware.NewAuthorization(parentService)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewStudentRoutes(a, studentService, inviteService, subjectAuth)
	api.NewSessionRoutes(a, sessionService, subjectAuth)
	api.NewEntryRoutes(a, ledgerService, subjectAuth)
	api.NewQuestRoutes(a, questService, subjectAuth)
	api.NewParentRoutes(a, parentService, subjectAuth, authz)
	api.NewBoostRoutes(a, boostService, subjectAuth, authz)
	api.NewInviteRoutes(a, inviteService, subjectAuth, authz)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
