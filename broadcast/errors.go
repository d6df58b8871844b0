package broadcast

import "errors"

var (
	// ErrEndpointRequestFailed marks a per-endpoint failure: transport error, non-2xx status,
	// JSON-RPC error reply or unreadable body. It never aborts sibling requests.
	ErrEndpointRequestFailed = errors.New("endpoint request failed")
	// ErrResponseParseFailed marks a 2xx response whose body is not valid JSON-RPC.
	// It is always reported together with ErrEndpointRequestFailed.
	ErrResponseParseFailed = errors.New("response parse failed")
	// ErrNoEndpointsConfigured is returned by NewNodeSender if no usable node URL is given.
	ErrNoEndpointsConfigured = errors.New("no endpoints configured")

	errNilRegistry    = errors.New("nil relay registry")
	errInvalidBlocks  = errors.New("number of target blocks must be positive")
	errEmptyUUID      = errors.New("empty replacement uuid")
	errNoNodeAnswered = errors.New("no node answered")
)
