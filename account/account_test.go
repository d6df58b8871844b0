package account

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

const (
	testMnemonic        = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testMnemonicAddress = "0x9858effd232b4033e47d90003d41ec34ecaeda94"
)

func TestNewAccountKeySource(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hexutil.Encode(crypto.FromECDSA(key))

	t.Run("errors when both sources are empty", func(t *testing.T) {
		_, err := New(KeyMaterial{})
		require.ErrorIs(t, err, ErrMissingKeySource)
	})

	t.Run("errors when only whitespace is given", func(t *testing.T) {
		_, err := New(KeyMaterial{PrivateKey: "  ", Mnemonic: "\t"})
		require.ErrorIs(t, err, ErrMissingKeySource)
	})

	t.Run("errors when both sources are set", func(t *testing.T) {
		_, err := New(KeyMaterial{PrivateKey: keyHex, Mnemonic: testMnemonic})
		require.ErrorIs(t, err, ErrAmbiguousKeySource)
	})

	t.Run("errors on malformed private key", func(t *testing.T) {
		for _, bad := range []string{"0x1234", "not-hex", strings.Repeat("ff", 32)} {
			_, err := New(FromPrivateKey(bad))
			require.ErrorIs(t, err, ErrInvalidPrivateKey, bad)
		}
	})

	t.Run("errors on malformed mnemonic", func(t *testing.T) {
		_, err := New(FromMnemonic("abandon abandon abandon"))
		require.ErrorIs(t, err, ErrInvalidMnemonic)
	})

	t.Run("errors on malformed derivation path", func(t *testing.T) {
		_, err := New(KeyMaterial{Mnemonic: testMnemonic, DerivationPath: "m/not/a/path"})
		require.ErrorIs(t, err, ErrInvalidMnemonic)
	})
}

func TestAccountFromPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	expected := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())

	tests := map[string]string{
		"with prefix":    hexutil.Encode(crypto.FromECDSA(key)),
		"without prefix": common.Bytes2Hex(crypto.FromECDSA(key)),
	}
	for name, keyHex := range tests {
		t.Run(name, func(t *testing.T) {
			acc, err := New(FromPrivateKey(keyHex))
			require.NoError(t, err)
			require.Equal(t, expected, acc.Address())
			require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), acc.AddressBytes())
		})
	}
}

func TestAccountFromMnemonic(t *testing.T) {
	t.Run("known vector", func(t *testing.T) {
		acc, err := New(FromMnemonic(testMnemonic))
		require.NoError(t, err)
		require.Equal(t, testMnemonicAddress, acc.Address())
	})

	t.Run("extra whitespace is ignored", func(t *testing.T) {
		acc, err := New(FromMnemonic("  " + strings.ReplaceAll(testMnemonic, " ", "   ") + "\n"))
		require.NoError(t, err)
		require.Equal(t, testMnemonicAddress, acc.Address())
	})

	t.Run("explicit default path matches", func(t *testing.T) {
		acc, err := New(KeyMaterial{Mnemonic: testMnemonic, DerivationPath: "m/44'/60'/0'/0/0"})
		require.NoError(t, err)
		require.Equal(t, testMnemonicAddress, acc.Address())
	})

	t.Run("other index gives another address", func(t *testing.T) {
		acc, err := New(KeyMaterial{Mnemonic: testMnemonic, DerivationPath: "m/44'/60'/0'/0/1"})
		require.NoError(t, err)
		require.NotEqual(t, testMnemonicAddress, acc.Address())
	})

	t.Run("random phrase is deterministic", func(t *testing.T) {
		entropy, err := bip39.NewEntropy(128)
		require.NoError(t, err)
		phrase, err := bip39.NewMnemonic(entropy)
		require.NoError(t, err)

		a1, err := New(FromMnemonic(phrase))
		require.NoError(t, err)
		a2, err := New(FromMnemonic(phrase))
		require.NoError(t, err)
		require.Equal(t, a1.Address(), a2.Address())
	})
}

func TestSignMessage(t *testing.T) {
	acc, err := New(FromMnemonic(testMnemonic))
	require.NoError(t, err)

	msg := []byte("hello relay")
	sig, err := acc.SignMessage(msg)
	require.NoError(t, err)
	require.Len(t, sig, crypto.SignatureLength)
	require.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])

	recoverable := make([]byte, len(sig))
	copy(recoverable, sig)
	recoverable[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash(msg), recoverable)
	require.NoError(t, err)
	require.Equal(t, acc.AddressBytes(), crypto.PubkeyToAddress(*pub))
}

func TestSignTransaction(t *testing.T) {
	acc, err := New(FromMnemonic(testMnemonic))
	require.NoError(t, err)

	chainID := big.NewInt(11155111)
	to := common.HexToAddress("0xc101c69340feb4d0c474bf8fc34f5266f3de8a15")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     58,
		GasTipCap: big.NewInt(23_000_000_000),
		GasFeeCap: big.NewInt(52_000_000_000),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(20_000_000_000),
	})

	t.Run("sender recovers to account", func(t *testing.T) {
		signed, err := acc.SignTransaction(context.Background(), tx, chainID)
		require.NoError(t, err)
		sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
		require.NoError(t, err)
		require.Equal(t, acc.AddressBytes(), sender)
	})

	t.Run("raw encoding decodes back", func(t *testing.T) {
		raw, err := acc.SignRawTransaction(context.Background(), tx, chainID)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(raw, "0x02"))

		decoded := new(types.Transaction)
		require.NoError(t, decoded.UnmarshalBinary(hexutil.MustDecode(raw)))
		require.Equal(t, tx.Nonce(), decoded.Nonce())
		require.Equal(t, to, *decoded.To())
	})

	t.Run("nil inputs", func(t *testing.T) {
		_, err := acc.SignTransaction(context.Background(), nil, chainID)
		require.ErrorIs(t, err, errNilTransaction)
		_, err = acc.SignTransaction(context.Background(), tx, nil)
		require.ErrorIs(t, err, errNilChainID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := acc.SignTransaction(ctx, tx, chainID)
		require.ErrorIs(t, err, context.Canceled)
	})
}
