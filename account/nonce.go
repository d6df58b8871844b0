package account

import (
	"math"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// NonceTracker reconciles the next nonce of one account as reported by several nodes.
// The stored value never decreases.
type NonceTracker struct {
	address common.Address
	nonce   atomic.Uint64
}

// NewNonceTracker returns a tracker for address starting at zero.
func NewNonceTracker(address common.Address) *NonceTracker {
	return &NonceTracker{address: address}
}

func (n *NonceTracker) Address() common.Address {
	return n.address
}

// Observe raises the stored nonce to candidate if candidate is larger.
func (n *NonceTracker) Observe(candidate uint64) {
	for {
		current := n.nonce.Load()
		if candidate <= current {
			return
		}
		if n.nonce.CompareAndSwap(current, candidate) {
			return
		}
	}
}

// Current returns the highest nonce observed so far.
func (n *NonceTracker) Current() uint64 {
	return n.nonce.Load()
}

// Reserve returns the current nonce and advances the tracker past it.
// It fails with ErrNonceExhausted once the tracker holds math.MaxUint64.
func (n *NonceTracker) Reserve() (uint64, error) {
	for {
		current := n.nonce.Load()
		if current == math.MaxUint64 {
			return 0, ErrNonceExhausted
		}
		if n.nonce.CompareAndSwap(current, current+1) {
			return current, nil
		}
	}
}
