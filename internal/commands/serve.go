package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
)

const shutdownGracePeriod = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:        "serve",
		Short:      "Start the JSON web API",
		Long:       "Serves the calendar over HTTP. Mutating routes require Basic Auth when an auth file exists.",
		Example:    "holiday-planner serve --config holiday-planner.yaml",
		Aliases:    []string{"s"},
		SuggestFor: []string{"web", "http"},
		Args:       cobra.NoArgs,
		RunE:       executeServe,
	}
}

func executeServe(_ *cobra.Command, _ []string) error {
	env, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer env.Close()

	auth, err := app.LoadAuthenticator(env.cfg.Auth.File, env.log)
	if err != nil {
		return fmt.Errorf("failed to load auth credentials: %w", err)
	}

	srv := app.NewServer(env.store, auth, app.NewMetrics(), env.log)
	httpSrv := &http.Server{
		Addr:              env.cfg.Server.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		env.log.Infof("Starting holiday planner on http://%s", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		env.log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
