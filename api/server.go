package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trenchwars/config"
	"trenchwars/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server wraps the gin engine and the underlying HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// NewServer builds the router with all handlers registered
func NewServer(
	cfg *config.Config,
	warService service.WarService,
	betService service.BetService,
	settlementService service.SettlementService,
	tokenService service.TokenService,
	userService service.UserService,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(CORSMiddleware(cfg.CORSOrigins))

	warHandler := NewWarHandler(warService, settlementService)
	betHandler := NewBetHandler(betService)
	tokenHandler := NewTokenHandler(tokenService)
	userHandler := NewUserHandler(userService)

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := engine.Group("/api")
	{
		wars := apiGroup.Group("/wars")
		{
			wars.GET("", warHandler.ListWars)
			wars.POST("", warHandler.CreateWar)
			wars.GET("/active", warHandler.ListActiveWars)
			wars.GET("/:id", warHandler.GetWar)
			wars.GET("/:id/stats", warHandler.GetWarStats)
			wars.POST("/:id/settle", warHandler.SettleWar)
			wars.GET("/:id/settlement", warHandler.GetSettlement)
		}

		bets := apiGroup.Group("/bets")
		{
			bets.POST("", betHandler.PlaceBet)
			bets.GET("/war/:id", betHandler.GetWarBets)
			bets.GET("/user/:wallet", betHandler.GetUserBets)
			bets.GET("/winnings/:war_id/:choice/:amount", betHandler.PreviewWinnings)
			bets.POST("/:id/claim", betHandler.ClaimWinnings)
		}

		users := apiGroup.Group("/users")
		{
			users.GET("/:wallet", userHandler.GetUser)
			users.GET("/:wallet/stats", userHandler.GetUserStats)
		}

		apiGroup.GET("/tokens", tokenHandler.ListTokens)
		apiGroup.POST("/tokens", tokenHandler.RegisterToken)

		prices := apiGroup.Group("/prices")
		{
			prices.POST("", tokenHandler.RecordPrice)
			prices.GET("/:symbol", tokenHandler.GetPrice)
			prices.GET("/:symbol/history", tokenHandler.GetPriceHistory)
		}
	}

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// Engine exposes the router, primarily for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.WithField("addr", s.http.Addr).Info("HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		log.WithFields(log.Fields{
			"method":   ctx.Request.Method,
			"path":     ctx.Request.URL.Path,
			"status":   ctx.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("Request handled")
	}
}
