package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dkcal-backend/application/services"
	"dkcal-backend/infrastructure/config"
	"dkcal-backend/interfaces/http/rest/handlers"
	"dkcal-backend/interfaces/http/rest/middleware"
	"dkcal-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	catalog   *services.CatalogService
	ledger    *services.LedgerService
	stats     *services.StatsService
	profiles  *services.ProfileService
	estimator *services.EstimatorService
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	catalogService *services.CatalogService,
	ledgerService *services.LedgerService,
	statsService *services.StatsService,
	profileService *services.ProfileService,
	estimatorService *services.EstimatorService,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		catalog:   catalogService,
		ledger:    ledgerService,
		stats:     statsService,
		profiles:  profileService,
		estimator: estimatorService,
		validator: validator,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api", func(r chi.Router) {
		// Anonymous access maps to the single default user in development
		r.Use(middleware.Authenticate(rt.validator, rt.cfg.IsDevelopment(), rt.logger))

		itemHandler := handlers.NewItemHandler(rt.catalog, rt.logger)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)
			r.Put("/{itemID}", itemHandler.UpdateItem)
			r.Delete("/{itemID}", itemHandler.DeleteItem)
		})

		dayHandler := handlers.NewDayHandler(rt.ledger, rt.logger)
		r.Get("/day/{date}", dayHandler.GetDay)
		r.Put("/day/{date}", dayHandler.UpdateDay)

		r.Get("/stats", handlers.NewStatsHandler(rt.stats, rt.logger).GetStats)

		profileHandler := handlers.NewProfileHandler(rt.profiles, rt.logger)
		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.UpdateProfile)

		// 10 estimation calls per user per minute
		estimateHandler := handlers.NewEstimateHandler(rt.estimator, auth.NewUserRateLimiter(10), rt.logger)
		r.Post("/estimate", estimateHandler.EstimateText)
		r.Post("/estimate/image", estimateHandler.EstimateImage)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
