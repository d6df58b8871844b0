// Package types holds the wire formats exchanged with bundle relays and JSON-RPC nodes,
// and the per-endpoint outcome of a broadcast.
package types
