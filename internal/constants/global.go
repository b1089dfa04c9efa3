package constants

const AppName = "relay"

// Cache bounds. Overridable from conf.Cache; these are the compile-time
// defaults used when no config file supplies a value.
const (
	MaxCacheSize   = 1_000_000
	MaxContentSize = 200_000
)

// ProtocolRequestIDKey is the log-correlation header. It is generated
// per connection and never forwarded upstream or to the client.
const ProtocolRequestIDKey = "X-Request-ID"
