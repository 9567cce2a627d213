// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	routes map[string]map[string]http.Handler // base -> endpoint -> handler
}

func newRouter() *router {
	return &router{
		router: mux.NewRouter(),
		routes: make(map[string]map[string]http.Handler),
	}
}

func (r *router) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(writer, request)
}

func (r *router) GetHandler(base, endpoint string) (http.Handler, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	handler, ok := r.routes[base][endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s%s", ErrUnknownRoute, base, endpoint)
	}
	return handler, nil
}

func (r *router) AddRouter(base, endpoint string, handler http.Handler) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	endpoints := r.routes[base]
	if endpoints == nil {
		endpoints = make(map[string]http.Handler)
	}
	url := base + endpoint
	if _, exists := endpoints[endpoint]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, url)
	}
	endpoints[endpoint] = handler
	r.routes[base] = endpoints

	// Name routes based on their URL for easy retrieval in the future
	r.router.Handle(url, handler).Name(url)
	return nil
}
