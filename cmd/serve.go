package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmc-gaming/clanhub/internal/api"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/mmc-gaming/clanhub/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clanhub server",
	Long:  `Start the clanhub HTTP server. The admin account is ensured before the server accepts requests.`,
	Example: `clanhub serve --config config.yml
clanhub serve -c /path/to/config.yml --log-level debug
`,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.EnsureDefaultAdmin(ctx, db, cfg.Admin)
	switch {
	case errors.Is(err, engine.ErrAdminPasswordRequired):
		log.Warn("No admin account exists and admin.password is not set, admin actions are unavailable")
	case err != nil:
		return err
	default:
		log.Debug("Admin bootstrap finished", "result", result)
	}

	eng, err := engine.New(cfg, db)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Uploads)
	if err != nil {
		return err
	}

	server, err := api.New(cfg, eng, store, log.GetLevel() == log.DebugLevel)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Info("clanhub started successfully", "listen", cfg.Listen)
	return g.Wait()
}
