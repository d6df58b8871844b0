package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	MethodSendBundle   = "eth_sendBundle"
	MethodCancelBundle = "eth_cancelBundle"
)

var (
	ErrEmptyTransactionSet = errors.New("empty transaction set")
	ErrMalformedTx         = errors.New("malformed raw transaction")
	ErrInvalidTimestamps   = errors.New("minTimestamp is after maxTimestamp")
)

// BundleRequest is an ordered set of raw signed transactions targeting one block.
// The order of Txs is the execution order within the block.
type BundleRequest struct {
	Txs               []string
	BlockNumber       uint64
	MinTimestamp      *uint64
	MaxTimestamp      *uint64
	RevertingTxHashes []string
	ReplacementUUID   string
}

// Validate checks the request before anything is sent.
func (r BundleRequest) Validate() error {
	if len(r.Txs) == 0 {
		return ErrEmptyTransactionSet
	}
	for i, tx := range r.Txs {
		raw, err := hexutil.Decode(tx)
		if err != nil {
			return fmt.Errorf("%w: tx %d: %w", ErrMalformedTx, i, err)
		}
		if len(raw) == 0 {
			return fmt.Errorf("%w: tx %d is empty", ErrMalformedTx, i)
		}
	}
	if r.MinTimestamp != nil && r.MaxTimestamp != nil && *r.MinTimestamp > *r.MaxTimestamp {
		return ErrInvalidTimestamps
	}
	return nil
}

// ForBlock returns a copy of r targeting block.
func (r BundleRequest) ForBlock(block uint64) BundleRequest {
	r.BlockNumber = block
	return r
}

// BundleParams is the eth_sendBundle parameter object. Field order is the wire order.
type BundleParams struct {
	Txs               []string `json:"txs"`
	BlockNumber       string   `json:"blockNumber"`
	MinTimestamp      *uint64  `json:"minTimestamp,omitempty"`
	MaxTimestamp      *uint64  `json:"maxTimestamp,omitempty"`
	RevertingTxHashes []string `json:"revertingTxHashes,omitempty"`
	ReplacementUUID   string   `json:"replacementUuid,omitempty"`
}

// NewBundleParams converts a request to its wire representation.
func NewBundleParams(r BundleRequest) BundleParams {
	return BundleParams{
		Txs:               r.Txs,
		BlockNumber:       hexutil.EncodeUint64(r.BlockNumber),
		MinTimestamp:      r.MinTimestamp,
		MaxTimestamp:      r.MaxTimestamp,
		RevertingTxHashes: r.RevertingTxHashes,
		ReplacementUUID:   r.ReplacementUUID,
	}
}

// EncodeBundleParams returns the compact JSON of the bundle parameter object.
// Absent optional fields are omitted, never null.
func EncodeBundleParams(r BundleRequest) ([]byte, error) {
	return json.Marshal(NewBundleParams(r))
}

// CancelBundleParams is the eth_cancelBundle parameter object.
type CancelBundleParams struct {
	ReplacementUUID string `json:"replacementUuid"`
}

// SendBundleResult is the result object relays return for eth_sendBundle.
type SendBundleResult struct {
	BundleHash string `json:"bundleHash"`
}
