// Package server assembles the NexusPoint API from a database handle and
// settings.
//
// Setup:
//
//  1. Run migrations (nexuspoint migrate)
//  2. Create the server and serve its handler
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/nexuspoint?sslmode=disable")
//
//	srv, err := server.New(server.Config{
//	    DB:         db,
//	    JWTSecret:  "your-secret-key-at-least-32-chars",
//	    AppBaseURL: "https://app.example.com",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	http.ListenAndServe(":8080", srv.Handler())
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tendant/nexuspoint/internal/config"
	httpserver "github.com/tendant/nexuspoint/internal/http"
	"github.com/tendant/nexuspoint/internal/notification"
	"github.com/tendant/nexuspoint/internal/seed"
	"github.com/tendant/nexuspoint/pkg/auth"
	"github.com/tendant/nexuspoint/pkg/invitation"
	"github.com/tendant/nexuspoint/pkg/organization"
	"github.com/tendant/nexuspoint/pkg/repository"
	"github.com/tendant/nexuspoint/pkg/restaurant"
	"github.com/tendant/nexuspoint/pkg/validator"
)

// Config holds the configuration for the server.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret is the secret key for signing JWT tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in JWT tokens (default: "nexuspoint").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of access tokens (default: 15 minutes).
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the lifetime of refresh tokens (default: 7 days).
	RefreshTokenTTL time.Duration

	// AppBaseURL is the web app origin used in invitation links.
	AppBaseURL string

	// RequireInvitationEmailMatch rejects acceptance by a different email.
	RequireInvitationEmailMatch bool

	// Notifier delivers invitation emails (default: log only).
	Notifier invitation.Notifier

	PasswordPolicy  config.PasswordPolicyConfig
	RateLimit       config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	MaxRequestSize  int64
	CookieSecure    bool

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Server is a wired NexusPoint API.
type Server struct {
	config  Config
	db      *sql.DB
	handler http.Handler

	passwordService *auth.PasswordService
	sessionService  *auth.SessionService
	organizations   *organization.Service
	invitations     *invitation.Service
	branches        *restaurant.BranchService
	menu            *restaurant.MenuService
	dashboard       *restaurant.DashboardService
	orders          *restaurant.OrderService
	inventory       *restaurant.InventoryService
	payments        *restaurant.PaymentService
}

// New creates a server with the given configuration.
// Returns an error if required database tables don't exist.
func New(cfg Config) (*Server, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := validateSchema(ctx, cfg.DB); err != nil {
		return nil, err
	}

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(cfg.DB)
	credsRepo := repository.NewCredentialsRepository(cfg.DB)
	sessionsRepo := repository.NewSessionsRepository(cfg.DB)
	organizationsRepo := repository.NewOrganizationsRepository(cfg.DB)
	membershipsRepo := repository.NewMembershipsRepository(cfg.DB)
	invitationsRepo := repository.NewInvitationsRepository(cfg.DB)
	branchesRepo := repository.NewBranchesRepository(cfg.DB)
	menuItemsRepo := repository.NewMenuItemsRepository(cfg.DB)
	menuMappingsRepo := repository.NewMenuMappingsRepository(cfg.DB)
	ordersRepo := repository.NewOrdersRepository(cfg.DB)
	inventoryRepo := repository.NewInventoryRepository(cfg.DB)
	paymentsRepo := repository.NewPaymentConfigsRepository(cfg.DB)
	dashboardRepo := repository.NewDashboardRepository(cfg.DB)

	// Initialize services
	passwordPolicy := auth.NewPasswordPolicy(cfg.PasswordPolicy)
	passwordService := auth.NewPasswordService(cfg.DB, usersRepo, credsRepo, passwordPolicy)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, usersRepo)

	invitationService := invitation.NewService(invitation.Config{
		AppBaseURL:        cfg.AppBaseURL,
		RequireEmailMatch: cfg.RequireInvitationEmailMatch,
	}, invitationsRepo, membershipsRepo, cfg.Notifier, cfg.Logger)
	organizationService := organization.NewService(organizationsRepo, membershipsRepo, sessionsRepo, invitationService)

	s := &Server{
		config:          cfg,
		db:              cfg.DB,
		passwordService: passwordService,
		sessionService:  sessionService,
		organizations:   organizationService,
		invitations:     invitationService,
		branches:        restaurant.NewBranchService(membershipsRepo, branchesRepo),
		menu:            restaurant.NewMenuService(membershipsRepo, branchesRepo, menuItemsRepo, menuMappingsRepo),
		dashboard:       restaurant.NewDashboardService(membershipsRepo, branchesRepo, dashboardRepo),
		orders:          restaurant.NewOrderService(membershipsRepo, branchesRepo, ordersRepo, menuItemsRepo),
		inventory:       restaurant.NewInventoryService(membershipsRepo, branchesRepo, inventoryRepo),
		payments:        restaurant.NewPaymentService(membershipsRepo, branchesRepo, paymentsRepo),
	}

	s.handler = httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          cfg.Logger,
		Validator:       validator.New(),
		Accounts:        passwordService,
		Sessions:        sessionService,
		Users:           usersRepo,
		Organizations:   s.organizations,
		Invitations:     s.invitations,
		Branches:        s.branches,
		Menu:            s.menu,
		Dashboard:       s.dashboard,
		Orders:          s.orders,
		Inventory:       s.inventory,
		Payments:        s.payments,
		PasswordPolicy:  passwordPolicy,
		HealthCheck:     s.Ping,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		MaxRequestSize:  cfg.MaxRequestSize,
		CookieSecure:    cfg.CookieSecure,
	})

	return s, nil
}

// Handler returns the API handler with every route and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Ping checks the database connection.
func (s *Server) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SessionService returns the session service for advanced usage.
func (s *Server) SessionService() *auth.SessionService {
	return s.sessionService
}

// SeedDeps returns the services the demo seeder writes through.
func (s *Server) SeedDeps() seed.Deps {
	return seed.Deps{
		Accounts:      s.passwordService,
		Organizations: s.organizations,
		Branches:      s.branches,
		Menu:          s.menu,
		Orders:        s.orders,
		Inventory:     s.inventory,
		Payments:      s.payments,
		Logger:        s.config.Logger,
	}
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("server: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("server: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("server: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "nexuspoint"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = auth.DefaultRefreshTokenTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notification.NewLogNotifier(cfg.Logger)
	}
}

// requiredTables are created by the embedded migrations.
var requiredTables = []string{
	"users", "user_passwords", "sessions", "organizations", "memberships", "invitations",
	"branches", "menu_items", "menu_mappings", "orders", "inventory_items", "payment_configs",
}

// validateSchema checks that required database tables exist.
func validateSchema(ctx context.Context, db *sql.DB) error {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	`

	for _, table := range requiredTables {
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("server: missing table '%s' - run migrations first (nexuspoint migrate)", table)
		}
		if err != nil {
			return fmt.Errorf("server: failed to check schema: %w", err)
		}
	}

	return nil
}
