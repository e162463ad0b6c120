package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groove/internal/auth"
	"groove/internal/config"
	"groove/internal/database"
	"groove/internal/handler"
	"groove/internal/middleware"
	"groove/internal/reorder"
	"groove/internal/repository"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *log.Logger
}

// Init connects to the database, applies pending migrations and wires the
// routes. No request is served before it returns.
func Init(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	logger.Info("✅ Connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	applied, err := database.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}
	if applied {
		logger.Info("✅ Migrations applied")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	mover := reorder.NewCoordinator(db, logger.WithPrefix("reorder"), cfg.MoveMaxRetries)

	// Initialize handlers
	journal := handler.NewJournal(activityRepo, logger)
	userHandler := handler.NewUserHandler(userRepo, tokens, cfg.SessionCookie)
	boardHandler := handler.NewBoardHandler(boardRepo, memberRepo, journal, cfg.MaxBoards)
	memberHandler := handler.NewMemberHandler(memberRepo, journal)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, userRepo, memberRepo, journal, cfg.InvitationTTL, cfg.PublicURL)
	columnHandler := handler.NewColumnHandler(columnRepo, cardRepo, memberRepo, mover, journal)
	cardHandler := handler.NewCardHandler(cardRepo, columnRepo, memberRepo, mover, journal)
	commentHandler := handler.NewCommentHandler(commentRepo, cardRepo, memberRepo, journal)
	activityHandler := handler.NewActivityHandler(activityRepo, memberRepo)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/logout", userHandler.Logout)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens, cfg.SessionCookie))
	{
		authorized.GET("/me", userHandler.Me)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.GET("/boards/:id/activity", activityHandler.List)

		// Membership routes
		authorized.GET("/boards/:id/members", memberHandler.List)
		authorized.PUT("/boards/:id/members/:user_id", memberHandler.UpdateRole)
		authorized.DELETE("/boards/:id/members/:user_id", memberHandler.Remove)
		authorized.POST("/boards/:id/invitations", invitationHandler.Create)
		authorized.GET("/boards/:id/invitations", invitationHandler.List)
		authorized.DELETE("/boards/:id/invitations/:invitation_id", invitationHandler.Revoke)
		authorized.POST("/invitations/:token/accept", invitationHandler.Accept)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)
		authorized.POST("/columns/:id/move", columnHandler.Move)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/columns/:id/cards", cardHandler.GetByColumnID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/assignees/:user_id", cardHandler.AddAssignee)
		authorized.DELETE("/cards/:id/assignees/:user_id", cardHandler.RemoveAssignee)

		// Comment routes
		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.GET("/cards/:id/comments", commentHandler.List)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.Logger.Info("🚀 Server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("❌ Failed to listen", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal("❌ Server forced to shutdown", "err", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	s.Logger.Info("✅ Server exited properly")
}
