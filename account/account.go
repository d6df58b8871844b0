// Package account holds the signing identity used to produce raw transactions
// and the nonce bookkeeping for it.
package account

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyMaterial describes where the signing key comes from.
// Exactly one of PrivateKey and Mnemonic must be set.
type KeyMaterial struct {
	PrivateKey string
	Mnemonic   string

	// DerivationPath is only used together with Mnemonic.
	DerivationPath string
}

// FromPrivateKey returns key material for a hex encoded private key.
func FromPrivateKey(privateKeyHex string) KeyMaterial {
	return KeyMaterial{PrivateKey: privateKeyHex}
}

// FromMnemonic returns key material for a BIP-39 phrase at the default Ethereum path.
func FromMnemonic(phrase string) KeyMaterial {
	return KeyMaterial{Mnemonic: phrase}
}

// Validate checks that exactly one key source is present.
func (k KeyMaterial) Validate() error {
	hasKey := strings.TrimSpace(k.PrivateKey) != ""
	hasPhrase := strings.TrimSpace(k.Mnemonic) != ""
	switch {
	case hasKey && hasPhrase:
		return ErrAmbiguousKeySource
	case !hasKey && !hasPhrase:
		return ErrMissingKeySource
	}
	return nil
}

// Account is an immutable signing identity. The address is derived once at construction.
type Account struct {
	signer  Signer
	address common.Address
}

// New builds an Account from key material.
func New(key KeyMaterial) (*Account, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var (
		signer Signer
		err    error
	)
	if strings.TrimSpace(key.PrivateKey) != "" {
		signer, err = NewKeySignerFromHex(key.PrivateKey)
	} else {
		signer, err = deriveFromMnemonic(key.Mnemonic, key.DerivationPath)
	}
	if err != nil {
		return nil, err
	}

	return NewWithSigner(signer), nil
}

// NewWithSigner wraps an existing Signer, e.g. a remote one.
func NewWithSigner(signer Signer) *Account {
	return &Account{
		signer:  signer,
		address: signer.Address(),
	}
}

// Address returns the 0x-prefixed lowercase hex address.
func (a *Account) Address() string {
	return strings.ToLower(a.address.Hex())
}

// AddressBytes returns the 20-byte address.
func (a *Account) AddressBytes() common.Address {
	return a.address
}

// SignMessage signs msg with EIP-191 personal-sign semantics.
// The returned signature has V in {27, 28}.
func (a *Account) SignMessage(msg []byte) ([]byte, error) {
	sig, err := a.signer.SignHash(accounts.TextHash(msg))
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// SignTransaction signs tx for chainID with the latest signer for that chain.
func (a *Account) SignTransaction(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if tx == nil {
		return nil, errNilTransaction
	}
	if chainID == nil {
		return nil, errNilChainID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txSigner := types.LatestSignerForChainID(chainID)
	hash := txSigner.Hash(tx)
	sig, err := a.signer.SignHash(hash[:])
	if err != nil {
		return nil, fmt.Errorf("could not sign transaction: %w", err)
	}
	return tx.WithSignature(txSigner, sig)
}

// SignRawTransaction signs tx and returns its 0x-prefixed binary encoding,
// the form accepted by eth_sendRawTransaction and eth_sendBundle.
func (a *Account) SignRawTransaction(ctx context.Context, tx *types.Transaction, chainID *big.Int) (string, error) {
	signed, err := a.SignTransaction(ctx, tx, chainID)
	if err != nil {
		return "", err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("could not encode signed transaction: %w", err)
	}
	return hexutil.Encode(raw), nil
}
