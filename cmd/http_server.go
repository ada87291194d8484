package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/skill-matrix/internal"
	"github.com/frahmantamala/skill-matrix/internal/admin"
	adminpg "github.com/frahmantamala/skill-matrix/internal/admin/postgres"
	"github.com/frahmantamala/skill-matrix/internal/auth"
	authpg "github.com/frahmantamala/skill-matrix/internal/auth/postgres"
	"github.com/frahmantamala/skill-matrix/internal/core/events"
	"github.com/frahmantamala/skill-matrix/internal/dashboard"
	dashboardpg "github.com/frahmantamala/skill-matrix/internal/dashboard/postgres"
	"github.com/frahmantamala/skill-matrix/internal/helpdesk"
	helpdeskpg "github.com/frahmantamala/skill-matrix/internal/helpdesk/postgres"
	"github.com/frahmantamala/skill-matrix/internal/mailer"
	"github.com/frahmantamala/skill-matrix/internal/notification"
	notificationpg "github.com/frahmantamala/skill-matrix/internal/notification/postgres"
	"github.com/frahmantamala/skill-matrix/internal/settings"
	settingspg "github.com/frahmantamala/skill-matrix/internal/settings/postgres"
	"github.com/frahmantamala/skill-matrix/internal/skills"
	skillspg "github.com/frahmantamala/skill-matrix/internal/skills/postgres"
	"github.com/frahmantamala/skill-matrix/internal/transport/rest"
	"github.com/frahmantamala/skill-matrix/internal/user"
	userpg "github.com/frahmantamala/skill-matrix/internal/user/postgres"
	"github.com/frahmantamala/skill-matrix/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	db := deps.GormDB

	bus := events.NewEventBus(lg)

	mail := mailer.NewSMTPMailer(cfg.Mail)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenTTL,
		cfg.Security.ResetTokenTTL,
	)

	authService := auth.NewService(lg, authpg.NewRepository(db), tokens, mail, cfg.Security)
	userService := user.NewService(lg, userpg.NewUserRepository(db), cfg.Security)
	adminService := admin.NewService(lg, adminpg.NewRoleRepository(db))
	skillService := skills.NewService(lg, skillspg.NewSkillRepository(db))
	helpdeskService := helpdesk.NewService(lg, helpdeskpg.NewTicketRepository(db), bus)
	dashboardService := dashboard.NewService(lg, dashboardpg.NewDashboardRepository(db))
	notificationService := notification.NewService(lg, notificationpg.NewNotificationRepository(db))
	settingsService := settings.NewService(lg, settingspg.NewSettingsRepository(db), bus)

	// notification fan-out listens to deactivation, ticket and review events
	notification.NewEventHandler(lg, notificationService).Register(bus)

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		auth.NewHandler(authService),
		user.NewHandler(userService),
		admin.NewHandler(adminService),
		skills.NewHandler(skillService),
		helpdesk.NewHandler(helpdeskService),
		dashboard.NewHandler(dashboardService),
		notification.NewHandler(notificationService),
		settings.NewHandler(settingsService),
		lg,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Env)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed pool shared by gorm and the health check.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
