// Package starter assembles a dispatcher service from its config.
package starter

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/endpoints"
	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/config"
	"github.com/benchly/dispatch/scheduler/pool"
	"github.com/benchly/dispatch/scheduler/server"
	"github.com/benchly/dispatch/store"
)

// Service is a dispatcher with everything it runs on. Admin is nil when
// the admin endpoint is disabled.
type Service struct {
	Store      store.Store
	Pool       *pool.Pool
	Dispatcher *server.Dispatcher
	Admin      *endpoints.TwitterServer
}

// MakeService builds every component without starting any of them.
func MakeService(ctx context.Context, cfg *config.ServiceConfig, stat stats.StatsReceiver) (*Service, error) {
	log.Infof("Dispatcher config: %s", cfg)
	dispatcherConfig, err := cfg.Scheduler.CreateDispatcherConfig()
	if err != nil {
		return nil, err
	}
	cl, err := cfg.Remote.Create(stat)
	if err != nil {
		return nil, err
	}
	st, err := cfg.Store.Create(ctx)
	if err != nil {
		log.Errorf("Store not created, dispatcher not started: %v", err)
		return nil, err
	}

	s := &Service{Store: st, Pool: pool.NewPool(cfg.Scheduler.PoolSize, stat)}
	s.Dispatcher = server.NewDispatcher(dispatcherConfig, st, cl, s.Pool, stat)

	switch cfg.Admin.Type {
	case "http":
		s.Admin = endpoints.NewTwitterServer(endpoints.Addr(cfg.Admin.Addr), stat)
		s.Dispatcher.RegisterViews(s.Admin)
	case "none":
	default:
		s.Close()
		return nil, fmt.Errorf("unsupported admin type: %s", cfg.Admin.Type)
	}
	return s, nil
}

// Close stops the loops, lets running tasks finish and releases the store.
func (s *Service) Close() {
	s.Dispatcher.Stop()
	if s.Admin != nil {
		if err := s.Admin.Close(); err != nil {
			log.Errorf("Closing admin endpoint: %v", err)
		}
	}
	s.Pool.Close()
	if err := s.Store.Close(); err != nil {
		log.Errorf("Closing store: %v", err)
	}
}

// StartServer runs a dispatcher until ctx is done or the admin endpoint fails.
func StartServer(ctx context.Context, cfg *config.ServiceConfig, stat stats.StatsReceiver) error {
	s, err := MakeService(ctx, cfg, stat)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Dispatcher.Start(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	if s.Admin != nil {
		go func() {
			errCh <- s.Admin.Serve()
		}()
	}
	log.Info("Dispatcher started")

	select {
	case <-ctx.Done():
		log.Info("Dispatcher shutting down")
		return nil
	case err := <-errCh:
		return errors.NewError(fmt.Errorf("error serving admin endpoint: %v", err), errors.ServeFailureExitCode)
	}
}
