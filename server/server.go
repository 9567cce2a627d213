// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute serves [handler] at [base]+[endpoint] below the base url.
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server serves the node API over HTTP.
type Server interface {
	PathAdder
	// Addr is the address the server listens on
	Addr() net.Addr
	// Dispatch serves until Shutdown is called
	Dispatch() error
	// Shutdown stops accepting requests and waits for in-flight ones
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeHeaderTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

type server struct {
	baseURL         string
	log             logging.Logger
	shutdownTimeout time.Duration

	router   *router
	srv      *http.Server
	listener net.Listener
}

// New wraps the router in host filtering, CORS and gzip, then in each of
// [wrappers] in order.
func New(
	baseURL string,
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	allowedHosts []string,
	shutdownTimeout time.Duration,
	wrappers ...Wrapper,
) (Server, error) {
	router := newRouter()
	var handler http.Handler = filterInvalidHosts(router, allowedHosts)
	handler = cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(handler)
	handler = gziphandler.GzipHandler(handler)
	for _, wrapper := range wrappers {
		handler = wrapper.WrapHandler(handler)
	}

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
		zap.Strings("allowedHosts", allowedHosts),
	)
	return &server{
		baseURL:         baseURL,
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}, nil
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) Dispatch() error {
	s.log.Info("API serving", zap.Stringer("address", s.listener.Addr()))
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := strings.TrimSuffix(path.Join("/", s.baseURL, base), "/")
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)

	// a timed out shutdown still closes every connection
	_ = s.srv.Close()
	return err
}
