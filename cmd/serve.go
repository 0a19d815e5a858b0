package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"mealprep-backend/handlers"
	"mealprep-backend/pdfdoc"
	"mealprep-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if !skipMigrate {
		if err := store.Migrate(e.db); err != nil {
			return err
		}
	}

	gin.SetMode(e.cfg.GinMode)
	router, err := handlers.NewRouter(handlers.Deps{
		Store:       store.New(e.db),
		PDF:         pdfdoc.New(),
		Logger:      e.logger,
		Greeting:    e.cfg.Greeting,
		RecencyDays: e.cfg.RecencyDays,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + e.cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server starting", zap.String("port", e.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	e.logger.Info("server gracefully stopped")
	return nil
}
