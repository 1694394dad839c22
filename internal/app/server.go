// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"loyaltyhub-service/internal/config"
	"loyaltyhub-service/internal/db"
	branchHandler "loyaltyhub-service/internal/handlers/branch"
	portalHandler "loyaltyhub-service/internal/handlers/portal"
	wsHandler "loyaltyhub-service/internal/handlers/websocket"
	"loyaltyhub-service/internal/middleware"
	"loyaltyhub-service/internal/pkg/session"
	"loyaltyhub-service/internal/pkg/token"
	"loyaltyhub-service/internal/repository/postgres"
	branchsvc "loyaltyhub-service/internal/service/branch"
	customersvc "loyaltyhub-service/internal/service/customer"
	loyaltysvc "loyaltyhub-service/internal/service/loyalty"
	menusvc "loyaltyhub-service/internal/service/menu"
	portalsvc "loyaltyhub-service/internal/service/portal"
	transactionsvc "loyaltyhub-service/internal/service/transaction"
	"loyaltyhub-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("connected to PostgreSQL")

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
	logger.Info("connected to Redis")

	// ----- Token Manager -----
	tokenManager, err := token.NewManager(token.Config{
		Secret:   s.cfg.TokenSecret,
		Issuer:   s.cfg.TokenIssuer,
		Audience: s.cfg.TokenAudience,
		TTL:      s.cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.MaxPasswordTries)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	menuRepo := postgres.NewMenuItemRepository(pool)
	loyaltyConfigRepo := postgres.NewLoyaltyConfigRepository(pool)
	transactionRepo := postgres.NewPointTransactionRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	go hub.Run(context.Background())

	// ----- Services -----
	branchService := branchsvc.NewService(branchRepo, logger)
	customerService := customersvc.NewService(customerRepo, logger)
	menuService := menusvc.NewService(menuRepo, logger)
	loyaltyEngine := loyaltysvc.NewEngine(loyaltyConfigRepo, logger)
	transactionService := transactionsvc.NewService(
		transactionRepo,
		customerRepo,
		loyaltyConfigRepo,
		dbWrapper,
		logger,
	)
	portalService := portalsvc.NewService(
		portalsvc.Config{
			SessionTTL:     s.cfg.SessionTTL,
			CommitLockTTL:  s.cfg.CommitLockTTL,
			CustomerLinger: s.cfg.CustomerLinger,
		},
		branchService,
		customerService,
		menuService,
		loyaltyEngine,
		transactionService,
		sessionManager,
		rateLimiter,
		tokenManager,
		hub,
		logger,
	)

	// ----- Handlers -----
	branchHandlerInst := branchHandler.NewBranchHandler(portalService, s.cfg.RestaurantID)
	portalHandlerInst := portalHandler.NewPortalHandler(portalService, s.cfg.RestaurantID)
	wsHandlerInst := wsHandler.NewWSHandler(hub, logger)

	// ----- Middlewares -----
	portalMiddleware := middleware.NewPortalMiddleware(tokenManager, sessionManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		BranchHandler:    branchHandlerInst,
		PortalHandler:    portalHandlerInst,
		WSHandler:        wsHandlerInst,
		PortalMiddleware: portalMiddleware,
	}
	SetupRouter(s.engine, handlers)

	logger.Info("starting HTTP server", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
