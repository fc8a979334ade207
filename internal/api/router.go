package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/handlers"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/metrics"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/payments"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/storage"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client // optional
	Logger         *slog.Logger
	Tokens         auth.TokenService
	Revoker        auth.Revoker // optional
	AuthService    *auth.Service
	Users          *users.Store
	Payments       *payments.Service // nil disables checkout
	RazorpayKeyID  string
	Uploads        storage.Presigner // nil disables uploads
	AllowedOrigins []string          // CORS allowed origins
	RateLimitReqs  int               // Rate limit requests per window
	RateLimitSecs  int               // Rate limit window in seconds
	AuthRateLimit  int               // Per-IP requests per window on credential endpoints
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	userHandler := handlers.NewUserHandler(cfg.Users)
	donationHandler := handlers.NewDonationHandler(cfg.DB)
	blogHandler := handlers.NewBlogHandler(cfg.DB)
	queryHandler := handlers.NewQueryHandler(cfg.DB)
	workHandler := handlers.NewCompletedWorkHandler(cfg.DB)
	voteHandler := handlers.NewVoteHandler(cfg.DB)
	paymentHandler := handlers.NewPaymentHandler(cfg.Payments, cfg.RazorpayKeyID)
	uploadHandler := handlers.NewUploadHandler(cfg.Uploads)

	requireAuth := middleware.Auth(cfg.Tokens, cfg.Revoker)
	requireAdmin := middleware.RequireAdmin(cfg.AuthService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", metrics.Handler())

	// Credential endpoints get a tighter per-IP budget
	r.Group(func(r chi.Router) {
		if cfg.AuthRateLimit > 0 {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit, 60))
		}
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/admin-login", authHandler.AdminLogin)
		r.Post("/send-otp", authHandler.SendOTP)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password/{token}", authHandler.ResetPassword)
	})

	// Public content
	r.Get("/volunteers/count", userHandler.CountVolunteers)
	r.Get("/donation-forms", donationHandler.List)
	r.Get("/donation-form/{id}", donationHandler.Get)
	r.Get("/blogs", blogHandler.List)
	r.Get("/blog/{id}", blogHandler.Get)
	r.Post("/post-query", queryHandler.Create)
	r.Get("/completed-works", workHandler.List)
	r.Get("/countvotes/{id}", voteHandler.Count)
	r.Post("/create-order", paymentHandler.CreateOrder)
	r.Post("/verify-payment", paymentHandler.VerifyPayment)

	// Signed-in users
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Post("/volunteer", userHandler.Volunteer)
		r.Post("/add-blog", blogHandler.Create)
		r.Post("/vote", voteHandler.Vote)
		r.Get("/hasvoted/{id}", voteHandler.HasVoted)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/users", userHandler.List)
			r.Delete("/delete-user/{id}", userHandler.Delete)
			r.Put("/update-user-status/{userId}", userHandler.UpdateStatus)
			r.Get("/volunteers", userHandler.ListVolunteers)

			r.Post("/donation-form", donationHandler.Create)
			r.Put("/donation-form/{id}", donationHandler.Update)
			r.Delete("/donation-form/{id}", donationHandler.Delete)

			r.Get("/pending-blogs", blogHandler.Pending)
			r.Put("/approve-blog/{id}", blogHandler.Approve)
			r.Delete("/delete-blog/{id}", blogHandler.Delete)

			r.Get("/queries", queryHandler.List)
			r.Delete("/delete-query/{id}", queryHandler.Delete)

			r.Post("/add-completed-works", workHandler.Create)
			r.Delete("/delete-completed-work/{id}", workHandler.Delete)

			r.Post("/uploads/presign", uploadHandler.Presign)
		})
	})

	return &Router{r}
}
