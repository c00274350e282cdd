package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	bloom "github.com/naivewong/dynbloom"
	"github.com/naivewong/dynbloom/internal/ingest"
	"github.com/naivewong/dynbloom/internal/metrics"
	"github.com/naivewong/dynbloom/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var preload string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a filter over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			obs, err := metrics.NewObserver(reg)
			if err != nil {
				return err
			}

			f, err := a.newFilter(bloom.WithObserver(obs))
			if err != nil {
				return err
			}
			locked := bloom.NewLocked(f)
			if err := reg.Register(metrics.NewStatsCollector(locked.Stats)); err != nil {
				return err
			}

			if preload != "" {
				if err := preloadCSV(cmd.Context(), a, preload, locked); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(locked, a.log.Named("http"), reg)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(a.cfg.Server.Addr) })
			g.Go(func() error {
				<-gctx.Done()
				a.log.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().StringVar(&preload, "load", "", "CSV file to add before serving")
	cmd.Flags().StringSlice("columns", ingest.DefaultColumns, "CSV columns to read with --load")
	return cmd
}

func preloadCSV(ctx context.Context, a *app, path string, sink ingest.Inserter) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	n, err := ingest.Load(ctx, file, a.cfg.Ingest.Columns, sink)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	a.log.Info("csv loaded", zap.String("file", path), zap.Int("values", n))
	return nil
}
