package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/envvault/envvault/pkg/envvault/httpapi"
)

func newServeCommand(settings *Settings) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve presigned-URL endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(settings)
			client, err := newStorageClient(settings)
			if err != nil {
				return err
			}
			handlers := httpapi.NewHandlers(client, httpapi.WithLogger(logger))

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.RealIP)
			r.Use(middleware.Recoverer)
			r.Use(middleware.Timeout(30 * time.Second))
			r.Mount("/presign", handlers.Routes())
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			if listen == "" {
				listen = settings.Listen
			}
			server := &http.Server{Addr: listen, Handler: r}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("listen", listen).Msg("server starting")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from ENVVAULT_LISTEN)")
	return cmd
}
