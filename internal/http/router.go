package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/nexuspoint/internal/config"
	"github.com/tendant/nexuspoint/internal/http/features/branch"
	"github.com/tendant/nexuspoint/internal/http/features/common"
	"github.com/tendant/nexuspoint/internal/http/features/dashboard"
	"github.com/tendant/nexuspoint/internal/http/features/inventory"
	"github.com/tendant/nexuspoint/internal/http/features/invitation"
	"github.com/tendant/nexuspoint/internal/http/features/me"
	"github.com/tendant/nexuspoint/internal/http/features/menu"
	"github.com/tendant/nexuspoint/internal/http/features/order"
	"github.com/tendant/nexuspoint/internal/http/features/organization"
	"github.com/tendant/nexuspoint/internal/http/features/password"
	"github.com/tendant/nexuspoint/internal/http/features/payment"
	"github.com/tendant/nexuspoint/internal/http/features/session"
	"github.com/tendant/nexuspoint/internal/http/middleware"
	"github.com/tendant/nexuspoint/internal/httputil"
	"github.com/tendant/nexuspoint/pkg/auth"
	"github.com/tendant/nexuspoint/pkg/validator"
)

// SessionService is what the router needs from the session provider.
type SessionService interface {
	middleware.Authenticator
	password.Sessions
	session.Sessions
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Validator      *validator.Validator
	Accounts       password.Accounts
	Sessions       SessionService
	Users          me.Users
	Organizations  organization.Service
	Invitations    invitation.Service
	Branches       branch.Service
	Menu           menu.Service
	Dashboard      dashboard.Service
	Orders         order.Service
	Inventory      inventory.Service
	Payments       payment.Service
	PasswordPolicy *auth.PasswordPolicy

	// HealthCheck reports whether dependencies are reachable. Optional.
	HealthCheck func(ctx context.Context) error

	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	MaxRequestSize  int64
	CookieSecure    bool
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestSize))

	r.Get("/health", healthHandler(cfg.HealthCheck))
	r.Handle("/metrics", promhttp.Handler())

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	requireAuth := middleware.Auth(cfg.Sessions)

	base := common.NewBase(cfg.Logger, cfg.Validator)
	cookies := httputil.DefaultCookieConfig(cfg.CookieSecure)

	passwordHandler := password.NewHandler(base, cfg.Accounts, cfg.Sessions, cfg.PasswordPolicy, cookies)
	sessionHandler := session.NewHandler(base, cfg.Sessions, cookies)
	meHandler := me.NewHandler(base, cfg.Users)
	orgHandler := organization.NewHandler(base, cfg.Organizations)
	inviteHandler := invitation.NewHandler(base, cfg.Invitations)
	branchHandler := branch.NewHandler(base, cfg.Branches)
	menuHandler := menu.NewHandler(base, cfg.Menu)
	dashboardHandler := dashboard.NewHandler(base, cfg.Dashboard)
	orderHandler := order.NewHandler(base, cfg.Orders)
	inventoryHandler := inventory.NewHandler(base, cfg.Inventory)
	paymentHandler := payment.NewHandler(base, cfg.Payments)

	r.Route("/v1", func(r chi.Router) {
		// Authentication
		r.Group(func(r chi.Router) {
			r.Use(rateLimiters[middleware.LimitAuth])
			r.Post("/auth/register", passwordHandler.Register)
			r.Post("/auth/login", passwordHandler.Login)
			r.Post("/auth/refresh", sessionHandler.Refresh)
		})
		r.Get("/auth/password-policy", passwordHandler.Policy)
		r.Post("/auth/logout", sessionHandler.Logout)

		// Public invitation preview
		r.With(rateLimiters[middleware.LimitInvite]).Get("/invitations/{token}", inviteHandler.Get)

		// Everything below requires a live session
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(rateLimiters[middleware.LimitAPI])

			r.Post("/auth/logout/all", sessionHandler.LogoutAll)
			r.Get("/me", meHandler.GetMe)
			r.Patch("/me", meHandler.UpdateMe)

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", orgHandler.List)
				r.Post("/", orgHandler.Create)
				r.Post("/active", orgHandler.SetActive)
				r.Patch("/{id}", orgHandler.Update)
				r.Delete("/{id}", orgHandler.Delete)
				r.Get("/{id}/members", orgHandler.Members)
				r.With(rateLimiters[middleware.LimitInvite]).Post("/{id}/invitations", inviteHandler.Create)
			})
			r.Post("/invitations/{token}/accept", inviteHandler.Accept)

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", branchHandler.List)
				r.Post("/", branchHandler.Create)
				r.Get("/{id}", branchHandler.Get)
				r.Patch("/{id}", branchHandler.Update)
			})

			r.Route("/menu", func(r chi.Router) {
				r.Get("/items", menuHandler.ListItems)
				r.Post("/items", menuHandler.CreateItem)
				r.Get("/items/{id}", menuHandler.GetItem)
				r.Patch("/items/{id}", menuHandler.UpdateItem)
				r.Delete("/items/{id}", menuHandler.DeleteItem)
				r.Get("/mappings", menuHandler.ListMappings)
				r.Put("/mappings", menuHandler.UpsertMapping)
				r.Delete("/mappings/{id}", menuHandler.DeleteMapping)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Create)
				r.Get("/{id}", orderHandler.Get)
				r.Patch("/{id}/status", orderHandler.UpdateStatus)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventoryHandler.List)
				r.Post("/", inventoryHandler.Create)
				r.Get("/{id}", inventoryHandler.Get)
				r.Patch("/{id}", inventoryHandler.Update)
				r.Delete("/{id}", inventoryHandler.Delete)
			})

			r.Route("/payment-configs", func(r chi.Router) {
				r.Get("/", paymentHandler.List)
				r.Get("/effective", paymentHandler.Effective)
				r.Put("/", paymentHandler.Upsert)
				r.Delete("/{id}", paymentHandler.Delete)
			})
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
