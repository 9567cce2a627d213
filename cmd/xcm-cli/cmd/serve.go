// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/hyperxcm/config"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/node"
	"github.com/ava-labs/hyperxcm/rpc"
	"github.com/ava-labs/hyperxcm/server"
	"github.com/ava-labs/hyperxcm/trace"
	"github.com/ava-labs/hyperxcm/utils"
)

const (
	shutdownTimeout = 10 * time.Second
	healthEndpoint  = "/health"
	metricsEndpoint = "/metrics"
)

var errShuttingDown = errors.New("shutting down")

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an executor node with its JSON-RPC API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "node config file (json or yaml)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(nil)
	}
	return config.Load(path)
}

// serve runs the node until [ctx] is done.
func serve(ctx context.Context, cfg *config.Config) error {
	log := newLogger(consts.Name, cfg.GetLogLevel(), cfg.LogDir)
	defer log.Stop()

	tracer, err := trace.New(cfg.GetTraceConfig(consts.Name))
	if err != nil {
		return err
	}
	n, err := node.New(ctx, cfg, log, tracer)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			log.Error("failed to close node", zap.Error(err))
		}
	}()

	listener, err := net.Listen("tcp", cfg.GetHTTPAddress())
	if err != nil {
		return err
	}
	wrapper, err := server.NewMetricsWrapper(n.Registerer())
	if err != nil {
		return err
	}
	s, err := server.New(
		"",
		log,
		listener,
		server.DefaultHTTPConfig(),
		cfg.AllowedOrigins,
		cfg.AllowedHosts,
		shutdownTimeout,
		wrapper,
	)
	if err != nil {
		return err
	}
	handler, err := server.NewHandler(rpc.NewJSONRPCServer(n), rpc.Name)
	if err != nil {
		return err
	}
	if err := s.AddRoute(handler, "", rpc.JSONRPCEndpoint); err != nil {
		return err
	}
	if err := s.AddRoute(server.NewMetricsHandler(n.Gatherer()), "", metricsEndpoint); err != nil {
		return err
	}
	health := server.NewHealthHandler(func() error {
		if ctx.Err() != nil {
			return errShuttingDown
		}
		return nil
	})
	if err := s.AddRoute(health, "", healthEndpoint); err != nil {
		return err
	}

	utils.Outf("{{green}}serving{{/}} %s{{cyan}}%s{{/}}\n", s.Addr(), rpc.JSONRPCEndpoint)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down API")
		return s.Shutdown()
	})
	return g.Wait()
}
