package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

// Addrs are the listen addresses of Run. An empty MetricsAddr disables the
// metrics listener.
type Addrs struct {
	API     string
	Metrics string
}

// Run serves the receiver and the metrics endpoint until ctx is cancelled or
// either listener fails.
func Run(ctx context.Context, log logr.Logger, addrs Addrs, s *Server) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(runHTTP(ctx, log, addrs.API, "api", s))

	if addrs.Metrics != "" {
		metricsRouter := mux.NewRouter()
		metricsRouter.Methods("GET").Path("/metrics").Handler(s.metrics.Handler())
		eg.Go(runHTTP(ctx, log, addrs.Metrics, "metrics", metricsRouter))
	}

	return eg.Wait()
}

func runHTTP(ctx context.Context, log logr.Logger, addr, name string, handler http.Handler) func() error {
	return func() error {
		var lc net.ListenConfig

		l, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("could not listen for %s requests: %w", name, err)
		}

		srv := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: constants.ReadHeaderTimeout,
		}

		go func() {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			log.Info("graceful shutdown", "server", name)

			err := srv.Shutdown(shutdownCtx)
			if errors.Is(err, context.DeadlineExceeded) {
				log.Info("server did not shut down gracefully, forcing close", "server", name)
				_ = srv.Close()
			}
		}()

		log.Info("server started", "server", name, "addr", l.Addr().String())

		err = srv.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}
