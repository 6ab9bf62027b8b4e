// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package portal wires the classroom server together and runs it.
package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom/internal/config"
	"classroom/pkg/log"
	"classroom/pkg/redis"
	"classroom/portal/server"
	"classroom/portal/service"
	"classroom/portal/store"
	"classroom/portal/store/sqlstore"
	"classroom/portal/store/supabase"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Start serves the API until SIGINT or SIGTERM.
func Start(conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, conf)
}

// Run serves the API until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, conf *config.Config) error {
	logger := log.GetLogger("classroom")

	st, closeStore, err := OpenStore(conf)
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := &server.ServerConfig{Conf: conf, Store: st}
	if conf.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, &redis.ClientConfig{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", conf.Redis.Addr, err)
		}
		defer rdb.Close()
		cfg.Limiter = service.Limiter(rdb)
		logger.Infof("login throttling: %d attempts per %s", conf.Login.Limit, conf.Login.Window)
	}

	hs, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              conf.App.Listen,
		Handler:           hs,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on %s (store: %s)", conf.App.Listen, conf.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server exited: %v", err)
		return err
	}
	return nil
}

// OpenStore returns the configured backing store and a function that
// releases it.
func OpenStore(conf *config.Config) (store.Store, func(), error) {
	switch conf.Store.Backend {
	case config.StoreSQL:
		st, err := sqlstore.Open(&sqlstore.Config{
			Driver:        conf.Database.Driver,
			DSN:           conf.Database.DSN,
			PublicBaseURL: conf.App.PublicBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	case config.StoreSupabase:
		c := supabase.NewClient(&supabase.Config{
			URL:            conf.Supabase.URL,
			ServiceRoleKey: conf.Supabase.ServiceRoleKey,
			Timeout:        conf.Supabase.Timeout,
		})
		return c, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", conf.Store.Backend)
	}
}
