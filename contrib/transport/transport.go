// Package transport defines the lifecycle contract every long-running
// listener in the process implements, so the supervisor can start and
// stop the proxy/static acceptor and the metrics listener uniformly.
package transport

import "context"

// Server is a transport server: the acceptor (C8) and the metrics/debug
// listener (C12) both implement it.
type Server interface {
	Start(context.Context) error
	Stop(context.Context) error
}
