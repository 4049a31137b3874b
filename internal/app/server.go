// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"quinto-service/internal/config"
	"quinto-service/internal/db"
	authHandler "quinto-service/internal/handlers/auth"
	favoriteHandler "quinto-service/internal/handlers/favorite"
	interestHandler "quinto-service/internal/handlers/interest"
	leadHandler "quinto-service/internal/handlers/lead"
	pipelineHandler "quinto-service/internal/handlers/pipeline"
	propertyHandler "quinto-service/internal/handlers/property"
	reportHandler "quinto-service/internal/handlers/report"
	reviewHandler "quinto-service/internal/handlers/review"
	visitHandler "quinto-service/internal/handlers/visit"
	wsHandler "quinto-service/internal/handlers/websocket"
	"quinto-service/internal/middleware"
	"quinto-service/internal/pkg/jwt"
	"quinto-service/internal/pkg/session"
	"quinto-service/internal/repository/postgres"
	authService "quinto-service/internal/service/auth"
	"quinto-service/internal/service/email"
	favoriteService "quinto-service/internal/service/favorite"
	interestService "quinto-service/internal/service/interest"
	leadService "quinto-service/internal/service/lead"
	pipelineService "quinto-service/internal/service/pipeline"
	propertyService "quinto-service/internal/service/property"
	reportService "quinto-service/internal/service/report"
	reviewService "quinto-service/internal/service/review"
	visitService "quinto-service/internal/service/visit"
	"quinto-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	pool   *pgxpool.Pool
	redis  *redis.Client
	views  *propertyService.ViewCounter
	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redis = redisClient

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool)
	propertyRepo := postgres.NewPropertyRepository(pool)
	interestRepo := postgres.NewInterestRepository(pool)
	historyRepo := postgres.NewPipelineHistoryRepository(pool)
	visitRepo := postgres.NewVisitRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager, sessionManager, logger)
	go hub.Run(ctx)

	// ----- Pipeline Engine -----
	pipelineStore := pipelineService.NewStore(interestRepo, historyRepo, dbWrapper)
	engine := pipelineService.NewEngine(pipelineStore, logger)

	// Push every board update to whichever of the broker's clients is watching.
	engine.SubscribeAll(hub.BroadcastBoard)

	// ----- Services -----
	authSvc := authService.NewAuthService(authRepo, jwtManager, sessionManager, logger)
	matcher := leadService.NewMatcher(leadRepo, emailSender, s.cfg.MatchScoreThreshold, s.cfg.PublicBaseURL, logger)
	leadSvc := leadService.NewLeadService(leadRepo, authRepo, propertyRepo, matcher, logger)
	views := propertyService.NewViewCounter(redisClient, propertyRepo, logger)
	propertySvc := propertyService.NewPropertyService(propertyRepo, views, matcher, logger)
	interestSvc := interestService.NewInterestService(
		interestRepo, historyRepo, propertyRepo, authRepo,
		engine, hub, emailSender, rateLimiter, s.cfg.PublicBaseURL, logger,
	)
	visitSvc := visitService.NewVisitService(visitRepo, propertyRepo, logger)
	reviewSvc := reviewService.NewReviewService(reviewRepo, propertyRepo, authRepo, logger)
	favoriteSvc := favoriteService.NewFavoriteService(favoriteRepo, propertyRepo, logger)
	reportSvc := reportService.NewReportService(reportRepo, propertyRepo, logger)

	// Drain buffered view counters in the background.
	go views.Run(ctx, time.Minute)
	s.views = views

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:     authHandler.NewAuthHandler(authSvc),
		PropertyHandler: propertyHandler.NewPropertyHandler(propertySvc),
		PipelineHandler: pipelineHandler.NewPipelineHandler(engine),
		InterestHandler: interestHandler.NewInterestHandler(interestSvc),
		VisitHandler:    visitHandler.NewVisitHandler(visitSvc),
		ReviewHandler:   reviewHandler.NewReviewHandler(reviewSvc),
		FavoriteHandler: favoriteHandler.NewFavoriteHandler(favoriteSvc),
		LeadHandler:     leadHandler.NewLeadHandler(leadSvc),
		ReportHandler:   reportHandler.NewReportHandler(reportSvc),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(authSvc),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown stops background workers and closes connection pools. Cancelling
// the root context drains the view counter and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	if s.views != nil {
		s.views.FlushAll(ctx)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil && s.logger != nil {
			s.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
