package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voxscribe/cmd/voxscribe/cmd/cliflags"
	"voxscribe/internal/app"
)

var port int

func init() {
	Cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config and PORT)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Run the HTTP service: the transcription proxy at /functions/v1/transcribe
and the REST API under /api/v1.

The vendor API key must be configured; the service refuses to start without it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliflags.Config(cmd)
		if err != nil {
			return err
		}
		if port > 0 {
			cfg.Server.Port = port
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		application, cleanup, err := app.InitializeApplication(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(application.Server.Run)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return application.Server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			application.Logger.Error("server stopped with error", "error", err)
			return err
		}
		return nil
	},
}
