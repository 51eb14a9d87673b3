package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pg/pg"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/interactive-solutions/go-semaphore"
	gopg "github.com/interactive-solutions/go-semaphore/storage/go-pg"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(logger *logrus.Logger, opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the semaphore api over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(logger, opts)
			if err != nil {
				return err
			}

			if listen == "" {
				listen = e.Default("LISTEN_ADDR", ":8080")
			}

			registry := prometheus.NewRegistry()
			metrics, err := semaphore.NewMetrics(registry)
			if err != nil {
				return err
			}

			options := []semaphore.ClientOption{semaphore.SetMetrics(metrics)}

			var dispatchRepo semaphore.DispatchRepository

			if databaseURL := e.Default("DATABASE_URL", ""); databaseURL != "" {
				db, err := connectDatabase(databaseURL)
				if err != nil {
					return err
				}
				defer db.Close()

				dispatchRepo = gopg.NewDispatchRepository(db)
				options = append(options, semaphore.SetDispatchRepo(dispatchRepo))
			}

			client, err := newClient(logger, opts, e, options...)
			if err != nil {
				return err
			}

			router := semaphore.NewHttpHandler(client, dispatchRepo, logger).Router()
			router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

			server := &http.Server{
				Addr:              listen,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			return run(cmd.Context(), logger, server)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, defaults to LISTEN_ADDR or :8080")

	return cmd
}

func connectDatabase(databaseURL string) (*pg.DB, error) {
	options, err := pg.ParseURL(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "Invalid DATABASE_URL")
	}

	db := pg.Connect(options)

	if err := gopg.CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func run(ctx context.Context, logger logrus.FieldLogger, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)

	go func() {
		logger.WithField("addr", server.Addr).Info("semaphore gateway listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "Failed to serve")

	case <-ctx.Done():
	}

	logger.Info("shutting down semaphore gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
