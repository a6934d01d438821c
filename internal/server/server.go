package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hellodap/dap-backend/internal/config"
	"github.com/hellodap/dap-backend/internal/digest"
	"github.com/hellodap/dap-backend/internal/handler"
	"github.com/hellodap/dap-backend/internal/middleware"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/internal/service"
	"github.com/hellodap/dap-backend/pkg/mailer"
	"github.com/hellodap/dap-backend/pkg/push"
	"github.com/hellodap/dap-backend/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the external clients the server is wired with. Optional ones
// (Redis, Meilisearch, Cloudinary, mail, push) may be nil and the affected
// features degrade gracefully.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	MeiliClient meilisearch.ServiceManager
	Storage     storage.ImageStorage
	Mailer      mailer.Mailer
	PushSender  push.Sender
}

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	digestSched *digest.Scheduler
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	userRepo := repository.NewUserRepository(deps.DB)
	eventRepo := repository.NewEventRepository(deps.DB)
	participationRepo := repository.NewParticipationRepository(deps.DB)
	matchRepo := repository.NewMatchRepository(deps.DB)
	messageRepo := repository.NewMessageRepository(deps.DB)
	notificationRepo := repository.NewNotificationRepository(deps.DB)
	onboardingRepo := repository.NewOnboardingRepository(deps.DB)

	var searchSvc service.SearchService
	if deps.MeiliClient != nil {
		searchSvc = service.NewSearchService(deps.MeiliClient)
	}

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, deps.RedisClient, deps.PushSender)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, deps.RedisClient)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AuthTimeout)
	authHandler := handler.NewAuthHandler(authSvc)

	profileSvc := service.NewProfileService(userRepo, deps.Storage)
	profileHandler := handler.NewProfileHandler(profileSvc)

	discoverySvc := service.NewDiscoveryService(userRepo)
	discoveryHandler := handler.NewDiscoveryHandler(discoverySvc)

	participationSvc := service.NewParticipationService(participationRepo, eventRepo, userRepo, notificationSvc, deps.RedisClient)
	participationSvc.StartCountSyncWorker(context.Background(), 5*time.Minute)

	eventSvc := service.NewEventService(eventRepo, participationRepo, userRepo, searchSvc, notificationSvc, deps.Storage, deps.RedisClient, cfg.RateLimitEventCreate)
	eventHandler := handler.NewEventHandler(eventSvc, participationSvc)

	matchSvc := service.NewMatchService(matchRepo, userRepo, notificationSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)

	messageSvc := service.NewMessageService(messageRepo, matchRepo, userRepo, notificationSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)

	onboardingSvc := service.NewOnboardingService(onboardingRepo)
	onboardingHandler := handler.NewOnboardingHandler(onboardingSvc)

	var digestSched *digest.Scheduler
	if deps.Mailer != nil {
		source := digest.NewRepoSource(userRepo, matchRepo, messageRepo, eventRepo, participationRepo)
		aggregator := digest.NewAggregator(source, deps.Mailer)
		digestSched = digest.NewScheduler(aggregator, cfg.DigestCron)
		if err := digestSched.Start(); err != nil {
			log.Printf("failed to start digest scheduler: %v", err)
		}
	} else {
		log.Println("mailer not configured, daily digest disabled")
	}

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Account routes
		protected.PUT("/me/push-token", authHandler.SetPushToken)
		protected.DELETE("/me", authHandler.DeleteAccount)

		// Profile routes
		protected.GET("/me", profileHandler.GetMe)
		protected.PUT("/me", profileHandler.UpdateMe)

		// Discovery routes
		protected.GET("/discover", discoveryHandler.Discover)

		// Like routes
		protected.POST("/likes", matchHandler.ToggleLike)

		// Conversation routes
		protected.GET("/conversations", messageHandler.ListConversations)
		protected.GET("/conversations/:matchId/messages", messageHandler.ListMessages)
		protected.POST("/conversations/:matchId/messages", messageHandler.SendMessage)
		protected.PUT("/conversations/:matchId/read", messageHandler.MarkRead)

		// Event routes
		protected.POST("/events", eventHandler.Create)
		protected.GET("/events", eventHandler.List)
		protected.GET("/events/:id", eventHandler.Get)
		protected.PUT("/events/:id", eventHandler.Update)
		protected.DELETE("/events/:id", eventHandler.Delete)
		protected.POST("/events/:id/join", eventHandler.Join)
		protected.DELETE("/events/:id/join", eventHandler.Leave)
		protected.POST("/events/:id/comments", eventHandler.AddComment)
		protected.GET("/events/:id/comments", eventHandler.ListComments)
		protected.DELETE("/events/:id/comments/:commentId", eventHandler.DeleteComment)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Onboarding prompt routes
		protected.GET("/onboarding/prompts", onboardingHandler.GetPromptStates)
		protected.POST("/onboarding/prompts", onboardingHandler.ApplyAction)
	}

	return &Server{
		engine:      router,
		cfg:         cfg,
		digestSched: digestSched,
	}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}

func (s *Server) Stop() {
	if s.digestSched != nil {
		s.digestSched.Stop()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
