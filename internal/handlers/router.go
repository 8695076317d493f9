package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthdesk-api/internal/metrics"
	"github.com/harentsoaR/healthdesk-api/internal/middleware"
)

type RouterConfig struct {
	// AllowedOrigins may contain "*" to allow any origin. An empty list
	// allows none.
	AllowedOrigins []string
	// TrustedProxies may forward X-Forwarded-For. Nil trusts no proxy, so
	// ClientIP is always the peer address.
	TrustedProxies []string
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
}

// NewRouter wires the middleware chain and every route onto a gin engine.
func NewRouter(h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	corsCfg := corsConfig(cfg.AllowedOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logger(h.Log),
		middleware.Recovery(h.Log),
		middleware.Metrics(cfg.Metrics),
		cors.New(corsCfg),
	)
	limit := cfg.RateLimiter.RateLimit()

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("", h.Root)
		api.GET("/", h.Root)
		api.GET("/health", h.Health)
	}

	enquiryRoutes := api.Group("/enquiries")
	{
		enquiryRoutes.POST("", limit, h.CreateEnquiry)
		enquiryRoutes.POST("/", limit, h.CreateEnquiry)
		enquiryRoutes.GET("", h.GetEnquiries)
		enquiryRoutes.GET("/", h.GetEnquiries)
		enquiryRoutes.GET("/:id", h.GetEnquiry)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", limit, h.RegisterUser)
		authRoutes.POST("/login", limit, h.Login)
		authRoutes.GET("/users/me", h.GetCurrentUser)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderXRequestID},
		ExposeHeaders: []string{middleware.HeaderXRequestID},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
