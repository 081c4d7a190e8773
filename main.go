package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "spectrobackend/clients/discord"
	"spectrobackend/config"
	"spectrobackend/db"
	"spectrobackend/handlers"
	"spectrobackend/middleware"
	"spectrobackend/services/confessions"
	"spectrobackend/services/dispatcher"
	"spectrobackend/services/guilds"
	"spectrobackend/services/txmanager"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	publicKey, err := cfg.DiscordConfig.VerificationKey()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.DiscordAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "spectrobackend",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	guildsRepo := db.NewPostgresGuildsRepository(dbConn, cfg.DatabaseSchema)
	channelsRepo := db.NewPostgresChannelsRepository(dbConn, cfg.DatabaseSchema)
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	permissionsRepo := db.NewPostgresPermissionsRepository(dbConn, cfg.DatabaseSchema)
	confessionsRepo := db.NewPostgresConfessionsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	discordHTTPClient := discordclient.NewDiscordHTTPClientWithBaseURL(
		&http.Client{Timeout: 10 * time.Second},
		cfg.DiscordConfig.BotToken,
		cfg.DiscordConfig.APIBaseURL,
	)

	confessionsService := confessions.NewConfessionsService(
		channelsRepo, confessionsRepo, guildsRepo, usersRepo, permissionsRepo,
		discordHTTPClient, txManager)
	guildsService := guilds.NewGuildsService(guildsRepo, discordHTTPClient)
	dispatcherService := dispatcher.NewInteractionDispatcher(confessionsService)

	interactionsHandler := handlers.NewDiscordInteractionsHandler(publicKey, dispatcherService, guildsService)

	// Create a new router
	router := mux.NewRouter()
	interactionsHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
