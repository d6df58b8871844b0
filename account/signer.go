package account

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces secp256k1 signatures over 32-byte digests.
//
// The returned signature is in the [R || S || V] format where V is 0 or 1,
// the same layout crypto.Sign uses.
type Signer interface {
	Address() common.Address
	SignHash(hash []byte) ([]byte, error)
}

// KeySigner is a Signer backed by an in-memory private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner wraps an ECDSA private key.
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// NewKeySignerFromHex parses a hex encoded private key, with or without 0x prefix.
func NewKeySignerFromHex(privateKeyHex string) (*KeySigner, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return NewKeySigner(key), nil
}

func (s *KeySigner) Address() common.Address {
	return s.address
}

func (s *KeySigner) SignHash(hash []byte) ([]byte, error) {
	return crypto.Sign(hash, s.key)
}
