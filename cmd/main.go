// @title League System API
// @version 1.0
// @description Sports league record keeping: leagues, teams, seasons, rosters, games and penalties.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
)

const version = "1.0.0"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		applied, err := db.ApplyMigrations(ctx, dbConn, db.Migrations())
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied", slog.Any("files", applied))
	}

	var uploader storage.FileUploader = storage.Disabled{}
	if cfg.StorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, logo uploads are disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("live game hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	orgRepo := repositories.NewPostgresOrganizationRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	locationRepo := repositories.NewPostgresLocationRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	rosterRepo := repositories.NewPostgresSeasonRosterRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	roleRepo := repositories.NewPostgresRoleRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	penaltyRepo := repositories.NewPostgresPenaltyRepository(dbConn)
	choiceRepo := repositories.NewPostgresChoiceRepository(dbConn)
	switchRepo := repositories.NewPostgresSwitchRepository(dbConn)
	tx := repositories.NewPostgresTransactor(dbConn)
	logger.Info("repositories initialized")

	permissions := services.NewPermissions(roleRepo, seasonRepo, leagueRepo)
	switchService := services.NewSwitchService(switchRepo, logger)
	choiceService := services.NewChoiceService(choiceRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.JWTTTL, logger)
	accountService := services.NewAccountService(userRepo, registrationRepo, cfg.DefaultLanguage, cfg.DefaultTimezone)
	sportService := services.NewSportService(sportRepo, logger)
	leagueService := services.NewLeagueService(leagueRepo, uploader, logger)
	orgService := services.NewOrganizationService(orgRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, leagueRepo, permissions, uploader, logger)
	locationService := services.NewLocationService(locationRepo)
	seasonService := services.NewSeasonService(seasonRepo, teamRepo, tx, logger)
	rosterService := services.NewSeasonRosterService(rosterRepo, seasonRepo, roleRepo, permissions, tx, logger)
	registrationService := services.NewRegistrationService(registrationRepo, roleRepo, tx, logger)
	roleService := services.NewRoleService(roleRepo, teamRepo, leagueRepo, registrationRepo, registrationService, switchService, logger)
	gameService := services.NewGameService(
		gameRepo,
		seasonRepo,
		teamRepo,
		locationRepo,
		roleRepo,
		penaltyRepo,
		choiceService,
		permissions,
		tx,
		hub,
		logger,
	)
	penaltyService := services.NewPenaltyService(penaltyRepo, gameRepo, permissions, hub, logger)
	bulkUploadService := services.NewBulkUploadService(teamRepo, leagueRepo, locationRepo, switchService, tx, logger)
	logger.Info("services initialized")

	go runSeasonCopy(ctx, logger, seasonService, switchService, cfg.SeasonCopyWindow, cfg.SeasonCopyInterval)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Account:      handlers.NewAccountHandler(accountService),
		Sport:        handlers.NewSportHandler(sportService),
		League:       handlers.NewLeagueHandler(leagueService),
		Organization: handlers.NewOrganizationHandler(orgService),
		Team:         handlers.NewTeamHandler(teamService),
		Location:     handlers.NewLocationHandler(locationService),
		Season:       handlers.NewSeasonHandler(seasonService, rosterService, cfg.SeasonCopyWindow),
		Registration: handlers.NewSportRegistrationHandler(registrationService),
		Role:         handlers.NewRoleHandler(roleService),
		Game:         handlers.NewGameHandler(gameService, penaltyService),
		Choice:       handlers.NewChoiceHandler(choiceService),
		Admin:        handlers.NewAdminHandler(bulkUploadService, switchService),
		WebSocket:    handlers.NewWebSocketHandler(hub, gameService, switchService, cfg.CORSAllowedOrigins),
		Health:       handlers.NewHealthHandler(dbConn, version),
	}, api.Options{
		JWTSecret:                cfg.JWTSecretKey,
		Tokens:                   authService,
		Profiles:                 accountService,
		Registrations:            accountService,
		DefaultLanguage:          cfg.DefaultLanguage,
		DefaultTimezone:          cfg.DefaultTimezone,
		RegistrationRedirectPath: cfg.RegistrationRedirectPath,
		AllowedOrigins:           cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stop()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

// runSeasonCopy copies expiring seasons once at startup and then every interval,
// as long as the season_copy switch is on.
func runSeasonCopy(ctx context.Context, logger *slog.Logger, seasons services.SeasonService, switches services.SwitchService, window, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("season copy scheduler started", slog.Duration("interval", interval), slog.Duration("window", window))

	run := func() {
		if !switches.IsActive(ctx, models.SwitchSeasonCopy) {
			logger.Debug("season copy switch is off, skipping run")
			return
		}
		result, err := seasons.CopyExpiring(ctx, time.Now(), window)
		if err != nil {
			logger.Error("season copy run failed", slog.Any("error", err))
			return
		}
		logger.Info("season copy run finished",
			slog.Int("created", len(result.Created)),
			slog.Int("skipped", len(result.Skipped)))
	}

	run()
	for {
		select {
		case <-ctx.Done():
			logger.Info("season copy scheduler stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
