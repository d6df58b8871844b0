package account

import "errors"

var (
	// ErrMissingKeySource is returned if neither a private key nor a mnemonic is supplied.
	ErrMissingKeySource = errors.New("missing key source: provide a private key or a mnemonic")
	// ErrAmbiguousKeySource is returned if both a private key and a mnemonic are supplied.
	ErrAmbiguousKeySource = errors.New("ambiguous key source: private key and mnemonic are mutually exclusive")
	// ErrInvalidPrivateKey is returned if the private key cannot be parsed into a secp256k1 key.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidMnemonic is returned if the mnemonic fails BIP-39 validation or derivation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrNonceExhausted is returned by NonceTracker.Reserve when no higher nonce is left.
	ErrNonceExhausted = errors.New("nonce exhausted")

	errNilTransaction = errors.New("nil transaction")
	errNilChainID     = errors.New("nil chain id")
)
