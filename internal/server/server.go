package server

import (
	"fmt"
	"net/http"
	"time"

	"material-api/internal/config"
	"material-api/internal/database"
	"material-api/internal/metrics"
	custommiddleware "material-api/internal/middleware"
	"material-api/internal/repository"
	"material-api/internal/response"
	"material-api/internal/service"
	"material-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers onto a chi router.
// redisClient may be nil, in which case rate limiting is off.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(m.Middleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         custommiddleware.DefaultKeyPrefix,
		}, logger))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "Resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		if health["status"] != "up" {
			response.Write(w, response.Failure(http.StatusServiceUnavailable, health["error"]))
			return
		}
		response.Write(w, response.Success(health, r.Method))
	})
	router.Handle("/metrics", metrics.Handler(registry))

	// Initialize repositories
	materialRepo := repository.NewMaterialRepository(db.DB())
	supplierRepo := repository.NewSupplierRepository(db.DB())

	// Initialize services
	materialService := service.NewMaterialService(materialRepo, supplierRepo, service.MaterialOptions{
		Spec:             service.MaterialFieldSpec(),
		FilterableFields: cfg.Material.FilterableFields,
	}, m, logger)
	supplierService := service.NewSupplierService(supplierRepo, logger)

	// Initialize handlers
	materialHandler := transport.NewMaterialHandler(materialService, logger)
	supplierHandler := transport.NewSupplierHandler(supplierService, logger)

	authMiddleware := custommiddleware.OptionalAuth(cfg.JWT.Secret, logger)

	// Register routes
	materialHandler.RegisterRoutes(router, authMiddleware)
	supplierHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      otelhttp.NewHandler(router, "material-api"),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// NewRedisClient builds the rate limiter's client from cfg
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
