package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/formward/formward/internal/core/api"
	"github.com/formward/formward/internal/core/auth"
	"github.com/formward/formward/internal/core/cache"
	"github.com/formward/formward/internal/core/config"
	"github.com/formward/formward/internal/core/db"
	"github.com/formward/formward/internal/core/server"
	"github.com/formward/formward/internal/core/store"
	"github.com/formward/formward/internal/logging"
	"github.com/formward/formward/internal/notify"
)

const Version = "0.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Server.Port = port
	}
	if dbURL != "" {
		cfg.DB.URL = dbURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logging.Init(cfg.Log)

	database, err := db.Open(cfg.DB.URL, db.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	secret, err := config.JWTSecret()
	if err != nil {
		return fmt.Errorf("failed to load JWT secret: %w", err)
	}
	adminEmail, adminHash, err := config.AdminCredentials()
	if err != nil {
		return fmt.Errorf("failed to load admin credentials: %w", err)
	}
	authenticator, err := auth.NewAuthenticator(secret, adminEmail, adminHash)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	var schemaCache *cache.SchemaCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		schemaCache = cache.New(client)
	}

	var notifier api.Notifier
	if cfg.SMTP.Host != "" {
		emailNotifier, err := notify.NewEmailNotifier(cfg.SMTP, config.SMTPPassword())
		if err != nil {
			return fmt.Errorf("failed to create email notifier: %w", err)
		}
		defer emailNotifier.Close()
		notifier = emailNotifier
	}

	endpoints, err := api.NewHttpEndpoints(
		store.NewFormStore(queries),
		store.NewSubmissionStore(queries),
		schemaCache,
		notifier,
		authenticator,
		cfg,
	)
	if err != nil {
		return fmt.Errorf("failed to create endpoints: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, endpoints)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	slog.Info("starting Formward API",
		slog.String("version", Version),
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port))

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		slog.Info("shutting down gracefully")
		return httpServer.Shutdown(ctx)
	}
}
