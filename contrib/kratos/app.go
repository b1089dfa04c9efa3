// Package kratos is the process supervisor: it starts every registered
// transport.Server concurrently and brings them all down together on
// SIGINT/SIGTERM or when any server's Start returns an error, the same
// coordinated-shutdown shape the teacher's kratos.App provides but
// reimplemented on golang.org/x/sync/errgroup instead of the full kratos
// framework.
package kratos

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/relay/contrib/log"
	"github.com/yourusername/relay/contrib/transport"
)

type App struct {
	id          string
	name        string
	version     string
	stopTimeout time.Duration
	logger      log.Logger
	servers     []transport.Server
}

type Option func(*App)

func ID(id string) Option               { return func(a *App) { a.id = id } }
func Name(name string) Option           { return func(a *App) { a.name = name } }
func Version(version string) Option     { return func(a *App) { a.version = version } }
func Logger(l log.Logger) Option        { return func(a *App) { a.logger = l } }
func StopTimeout(d time.Duration) Option { return func(a *App) { a.stopTimeout = d } }
func Server(servers ...transport.Server) Option {
	return func(a *App) { a.servers = append(a.servers, servers...) }
}

func New(opts ...Option) *App {
	a := &App{stopTimeout: 30 * time.Second, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every server and blocks until either one of them returns an
// error or the process receives SIGINT/SIGTERM, at which point every
// server is stopped concurrently within StopTimeout.
func (a *App) Run() error {
	helper := log.NewHelper(a.logger)
	helper.Infof("app %s/%s (%s) starting with %d server(s)", a.name, a.version, a.id, len(a.servers))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range a.servers {
		srv := srv
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	<-gctx.Done()
	helper.Infof("app %s received shutdown signal", a.name)

	stopCtx, cancel := context.WithTimeout(context.Background(), a.stopTimeout)
	defer cancel()

	sg, _ := errgroup.WithContext(stopCtx)
	for _, srv := range a.servers {
		srv := srv
		sg.Go(func() error {
			return srv.Stop(stopCtx)
		})
	}
	if err := sg.Wait(); err != nil {
		helper.Errorf("app %s stop error: %v", a.name, err)
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
