package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/blob"
	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/db"
	"github.com/projeto-canaa/cadastro/pkg/documents"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/server"
	"github.com/projeto-canaa/cadastro/pkg/server/endpoints"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the registration server",
	Long: `Run the registration server.

The server requires the environment variable DATABASE_URL. Uploaded documents
go to the blob store selected by the blob_driver setting.

By default, database migrations are run on startup. Use --no-migrate to skip.
With --watch-config the configuration file is reloaded when it changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			fmt.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch-config")

		if err := runServer(cmd.Context(), host, port, watch); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the configuration file when it changes")
}

func runServer(ctx context.Context, host, port string, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromEnv()
	slog.SetDefault(logger)

	dir := config.Dir()
	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	live := config.NewLive(cfg, dir, logger)

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	blobs, err := blob.Open(ctx, cfg.Blob())
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	s := server.NewServer(database, live, documents.NewIntake(blobs, logger), logger, host, port)

	auditStore, err := audit.OpenStore(os.Getenv("AUDIT_DATABASE_URL"))
	switch {
	case errors.Is(err, audit.ErrStoreDisabled):
		logger.Info("audit database not configured; audit events go to syslog only")
	case err != nil:
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	s.Audit = audit.New(audit.NewLogger(), auditStore, cfg.AuditEnabled, logger)
	defer func() { _ = s.Audit.Close() }()

	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("running server", "url", "http://"+net.JoinHostPort(host, port), "blob_driver", cfg.BlobDriver)
		return s.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	if watch {
		g.Go(func() error {
			return live.Watch(gctx)
		})
	}
	return g.Wait()
}
