package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/aouyang1/signage/api"
	"github.com/aouyang1/signage/assets"
	"github.com/aouyang1/signage/auth"
	"github.com/aouyang1/signage/ratelimit"
	"github.com/aouyang1/signage/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Set up signal handling for graceful shutdown
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		database, err := store.NewDatabase(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		verifier, err := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.JWKSURL)
		if err != nil {
			return fmt.Errorf("failed to initialize token verifier: %w", err)
		}
		defer verifier.Close()

		opts := api.Options{
			Verifier:      verifier,
			Limiter:       ratelimit.New(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
			LicensePath:   cfg.LicensePath,
			AuditInterval: cfg.AuditInterval,
		}
		if cfg.S3.Bucket != "" {
			bucket, err := assets.NewBucket(ctx, cfg.S3.Profile, cfg.S3.Bucket)
			if err != nil {
				return fmt.Errorf("failed to initialize asset bucket: %w", err)
			}
			opts.Assets = bucket
		} else {
			slog.Info("no s3 bucket configured, asset endpoints disabled")
		}

		gin.SetMode(gin.ReleaseMode)
		webServer, err := api.NewWebServer(database, opts)
		if err != nil {
			return err
		}

		if err := webServer.Start(ctx, cfg.Listen); err != nil {
			return err
		}
		slog.Info("signage shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
