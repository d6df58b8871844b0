package account

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// normalizeMnemonic collapses repeated whitespace so that copy-pasted phrases validate.
func normalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(phrase), " ")
}

// deriveFromMnemonic derives the secp256k1 key at path from a BIP-39 phrase.
// An empty path means m/44'/60'/0'/0/0.
func deriveFromMnemonic(phrase, path string) (*KeySigner, error) {
	phrase = normalizeMnemonic(phrase)
	if !bip39.IsMnemonicValid(phrase) {
		return nil, ErrInvalidMnemonic
	}

	derivationPath := accounts.DefaultBaseDerivationPath
	if path != "" {
		var err error
		derivationPath, err = accounts.ParseDerivationPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: derivation path %q: %w", ErrInvalidMnemonic, path, err)
		}
	}

	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}

	// The network params only affect the serialized xprv version bytes, not the key itself.
	extKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	for _, index := range derivationPath {
		extKey, err = extKey.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("%w: derive %s: %w", ErrInvalidMnemonic, derivationPath, err)
		}
	}

	btcecKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	key, err := crypto.ToECDSA(btcecKey.Serialize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	return NewKeySigner(key), nil
}
