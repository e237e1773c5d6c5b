package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/httpapi"
	"github.com/rcliao/field-planner/internal/metrics"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long:  "Serve the JSON API, /healthz and Prometheus /metrics. The baseline is reloaded when the day changes.",
		Run:   runServe,
	}

	cmd.Flags().StringP("listen", "l", ":8080", "Listen address")
	_ = v.BindPFlag("listen", cmd.Flags().Lookup("listen"))

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	p, s, err := openPlanner(ctx, geofence.RequestProvider{}, metrics.New(reg))
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.NewRouter(&httpapi.Handlers{Planner: p, Logger: logger}, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return rollover(gctx, p, time.Minute)
	})

	if err := g.Wait(); err != nil {
		exitErr("serve", err)
	}
	logger.Info("server stopped")
}

// rollover reloads the baseline whenever the local date changes.
func rollover(ctx context.Context, p *planner.Planner, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			today := model.DateOf(now)
			if today == p.Snapshot().Date {
				continue
			}
			if err := p.LoadBaseline(ctx, today); err != nil {
				logger.Error("baseline rollover failed", zap.String("date", today), zap.Error(err))
				continue
			}
			logger.Info("baseline loaded", zap.String("date", today))
		}
	}
}
