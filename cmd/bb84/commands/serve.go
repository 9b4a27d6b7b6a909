package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"bb84/internal/app"
)

const shutdownTimeout = 5 * time.Second

// serve: run the session server until interrupted.
func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the BB84 session server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			srv, err := app.NewServer(cfg, logger, reg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, srv)
		},
	}

	f := cmd.Flags()
	f.String("listen", "", "listen address (default :8000)")
	f.StringSlice("origins", nil, "allowed CORS and WebSocket origins")
	f.Float64("eve-prob", 0, "default interception probability (default 0.2)")
	f.Int("max-bits", 0, "largest accepted bit count (default 4096)")
	for key, flag := range map[string]string{
		"listen_addr":      "listen",
		"allowed_origins":  "origins",
		"default_eve_prob": "eve-prob",
		"max_bits":         "max-bits",
	} {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(ctx context.Context, srv *app.Server) error {
	httpSrv := &http.Server{
		Addr:              srv.Config.ListenAddr,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", httpSrv.Addr).
			Str("session_id", srv.Session.Status().SessionID).
			Msg("bb84 server listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
