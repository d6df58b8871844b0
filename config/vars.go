package config

import (
	"github.com/flashbots/go-utils/cli"
)

// Set during build
var (
	// Version is the version of the software, set at build time
	Version = "v0.1.0-dev"
)

// Other settings
var (
	// HTTPMaxIdleConnsPerHost bounds the idle keep-alive connections kept per relay or node.
	HTTPMaxIdleConnsPerHost = cli.GetEnvInt("MEV_FANOUT_HTTP_MAX_IDLE_CONNS_PER_HOST", 4)

	// HTTPIdleConnTimeoutMs is how long an idle keep-alive connection is kept open.
	HTTPIdleConnTimeoutMs = cli.GetEnvInt("MEV_FANOUT_HTTP_IDLE_CONN_TIMEOUT_MS", 30_000)

	// MaxResponseBytes caps how much of a response body is read from an endpoint.
	MaxResponseBytes = cli.GetEnvInt("MEV_FANOUT_MAX_RESPONSE_BYTES", 1<<20)

	// LoggedResponseBytes caps how much of a response body is kept in outcomes and logs.
	LoggedResponseBytes = cli.GetEnvInt("MEV_FANOUT_LOGGED_RESPONSE_BYTES", 512)
)
