// Package server implements the acceptor (C8) shared by proxy mode and
// static-file mode: bind, accept, spawn a goroutine per connection
// running a caller-supplied handler. The socket is bound through a
// cloudflare/tableflip Upgrader, so a listener handed down by a parent
// tableflip process is reused; this package never calls Upgrade, so no
// signal starts a restart.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cloudflare/tableflip"

	"github.com/yourusername/relay/contrib/log"
	"github.com/yourusername/relay/metrics"
)

// Handler processes one accepted connection to completion. Implementations
// must close conn before returning.
type Handler func(ctx context.Context, conn net.Conn)

// Acceptor binds addr and spawns one goroutine per accepted connection.
// It implements transport.Server.
type Acceptor struct {
	addr        string
	handler     Handler
	readTimeout time.Duration

	flip     *tableflip.Upgrader
	listener net.Listener
}

// New returns an Acceptor listening on addr (host:port, conventionally
// "0.0.0.0:<port>") and dispatching to handler. pidFile may be empty.
func New(addr, pidFile string, readTimeout time.Duration, handler Handler) (*Acceptor, error) {
	flip, err := tableflip.New(tableflip.Options{
		PIDFile:        pidFile,
		UpgradeTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &Acceptor{addr: addr, handler: handler, readTimeout: readTimeout, flip: flip}, nil
}

// Start binds the listening socket and accepts connections until Stop
// closes the listener; a cancelled ctx alone does not interrupt a blocked
// Accept, it only makes the loop return quietly once Accept fails. Other
// accept errors are logged and the loop
// continues, per the spec's "no accept-rate limiting" design.
func (a *Acceptor) Start(ctx context.Context) error {
	helper := log.NewHelper(log.GetLogger())

	ln, err := a.flip.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.listener = ln

	if err := a.flip.Ready(); err != nil {
		return err
	}
	helper.Infof("acceptor listening on %s", a.addr)

	go func() {
		<-a.flip.Exit()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			helper.Warnf("accept error: %v", err)
			continue
		}

		metrics.ObserveConnection()
		if a.readTimeout > 0 {
			_ = conn.SetDeadline(time.Now().Add(a.readTimeout))
		}

		connCtx, metric := metrics.WithConnection(ctx, conn)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					helper.Errorf("connection handler panic: %v", r)
					_ = conn.Close()
				}
				metrics.ObserveRequestDuration(metric.Duration())
			}()
			a.handler(connCtx, conn)
		}()
	}
}

// Stop triggers a graceful tableflip shutdown, ceasing to accept new
// connections. In-flight goroutines are not forcibly cancelled; they run
// to completion per the spec's "no cancellation" model.
func (a *Acceptor) Stop(ctx context.Context) error {
	a.flip.Stop()
	if a.listener != nil {
		return a.listener.Close()
	}
	return nil
}
