package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"arcanist/internal/mcp"
	"arcanist/internal/observability"
)

func serveCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runServe(metricsAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	a, err := openApp(ctx, appOptions{surface: "mcp", metrics: metrics, shared: true})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	eg, egctx := errgroup.WithContext(ctx)

	server := mcp.NewServer(a.svc, version)
	eg.Go(func() error {
		a.logger.Info("mcp server listening on stdio")
		err := server.Run(egctx, &sdk.StdioTransport{})
		stop()
		return err
	})

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:    metricsAddr,
			Handler: observability.Handler(metrics),
			BaseContext: func(_ net.Listener) context.Context {
				return egctx
			},
			ReadHeaderTimeout: 10 * time.Second,
		}
		eg.Go(func() error {
			a.logger.Info("metrics listening", zap.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		eg.Go(func() error {
			<-egctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
