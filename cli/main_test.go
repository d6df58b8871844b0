package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/flashbots/mev-fanout/config/relay"
	"github.com/flashbots/mev-fanout/config/relay/reltest"
	"github.com/flashbots/mev-fanout/types"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestFloatEthTo256Wei(t *testing.T) {
	// test with small input
	i := 0.000000000000012345
	weiU256, overflow := floatEthTo256Wei(i)
	require.False(t, overflow)
	require.Equal(t, uint256.NewInt(12345), weiU256)

	// test with zero
	i = 0
	weiU256, overflow = floatEthTo256Wei(i)
	require.False(t, overflow)
	require.Equal(t, uint256.NewInt(0), weiU256)

	// test with large input
	i = 987654.3
	weiU256, overflow = floatEthTo256Wei(i)
	require.False(t, overflow)

	r := big.NewInt(9876543)
	r.Mul(r, big.NewInt(1e17))
	referenceWeiU256 := new(uint256.Int)
	overflow = referenceWeiU256.SetFromBig(r)
	require.False(t, overflow)

	require.Equal(t, referenceWeiU256, weiU256)

	// test with negative input
	_, overflow = floatEthTo256Wei(-1)
	require.True(t, overflow)
}

func TestFloatGweiTo256Wei(t *testing.T) {
	weiU256, overflow := floatGweiTo256Wei(1.5)
	require.False(t, overflow)
	require.Equal(t, uint256.NewInt(1_500_000_000), weiU256)
}

func TestParseBuilders(t *testing.T) {
	builders, err := parseBuilders(nil)
	require.NoError(t, err)
	require.Equal(t, []relay.Builder{relay.All}, builders)

	builders, err = parseBuilders([]string{" Flashbots", "titan", ""})
	require.NoError(t, err)
	require.Equal(t, []relay.Builder{relay.Flashbots, relay.Titan}, builders)
}

func TestParseRelayFlag(t *testing.T) {
	builder, relayURL, err := parseRelayFlag("mybuilder=https://rpc.example.com/bundles")
	require.NoError(t, err)
	require.Equal(t, relay.Builder("mybuilder"), builder)
	require.Equal(t, "https://rpc.example.com/bundles", relayURL)

	for _, value := range []string{"https://rpc.example.com", "mybuilder=", "=https://rpc.example.com"} {
		_, _, err = parseRelayFlag(value)
		require.ErrorIs(t, err, errInvalidRelayFlag, value)
	}
}

func TestReplacementUUID(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		got, err := replacementUUID("", false)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("given", func(t *testing.T) {
		got, err := replacementUUID("2F1B6A7C-2A3F-4E0F-9D6C-2BD1A4D6E9A0", false)
		require.NoError(t, err)
		require.Equal(t, "2f1b6a7c-2a3f-4e0f-9d6c-2bd1a4d6e9a0", got)

		_, err = replacementUUID("not-a-uuid", false)
		require.Error(t, err)
	})

	t.Run("generated", func(t *testing.T) {
		got, err := replacementUUID("", true)
		require.NoError(t, err)
		_, err = uuid.Parse(got)
		require.NoError(t, err)

		_, err = replacementUUID(got, true)
		require.ErrorIs(t, err, errConflictingUUIDFlags)
	})
}

func TestBuildTransaction(t *testing.T) {
	chainID := big.NewInt(1)

	tx, err := buildTransaction(txOpts{
		To:              "0x000000000000000000000000000000000000dEaD",
		ValueEth:        0.5,
		GasLimit:        21000,
		MaxFeeGwei:      30,
		PriorityFeeGwei: 1.5,
		Data:            "0x1234",
	}, 3, chainID)
	require.NoError(t, err)
	require.Equal(t, uint64(3), tx.Nonce())
	require.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000dEaD"), *tx.To())
	require.Equal(t, "500000000000000000", tx.Value().String())
	require.Equal(t, "30000000000", tx.GasFeeCap().String())
	require.Equal(t, "1500000000", tx.GasTipCap().String())
	require.Equal(t, []byte{0x12, 0x34}, tx.Data())
	require.Equal(t, uint64(21000), tx.Gas())
	require.Equal(t, 0, tx.ChainId().Cmp(chainID))

	t.Run("contract creation", func(t *testing.T) {
		tx, err := buildTransaction(txOpts{GasLimit: 100000, MaxFeeGwei: 1}, 0, chainID)
		require.NoError(t, err)
		require.Nil(t, tx.To())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := buildTransaction(txOpts{To: "0x1234"}, 0, chainID)
		require.ErrorIs(t, err, errInvalidAddress)

		_, err = buildTransaction(txOpts{MaxFeeGwei: 1, PriorityFeeGwei: 2}, 0, chainID)
		require.ErrorIs(t, err, errInvalidAmount)

		_, err = buildTransaction(txOpts{ValueEth: -1}, 0, chainID)
		require.ErrorIs(t, err, errInvalidAmount)

		_, err = buildTransaction(txOpts{Data: "zz"}, 0, chainID)
		require.Error(t, err)
	})
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	err := report(&buf, types.Outcomes{
		{URL: "https://a.example.com", Succeeded: true, Result: "0x01"},
		{URL: "https://b.example.com", Err: errors.New("boom")},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "1/2 endpoints accepted")

	buf.Reset()
	err = report(&buf, types.Outcomes{{URL: "https://b.example.com", Err: errors.New("boom")}})
	require.ErrorIs(t, err, errNoEndpointAccepted)
	require.Contains(t, err.Error(), "boom")
}

func TestPrintBuilders(t *testing.T) {
	registry := reltest.RegistryFromURLs(t, relay.Sepolia,
		[]relay.Builder{relay.Flashbots, relay.Titan},
		map[relay.Builder][]string{relay.Flashbots: {"https://relay-sepolia.flashbots.net"}})

	var buf bytes.Buffer
	require.NoError(t, printBuilders(&buf, registry, relay.Sepolia))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], "flashbots")
	require.Contains(t, lines[1], "https://relay-sepolia.flashbots.net")
	require.Contains(t, lines[2], "titan")
	require.True(t, strings.HasSuffix(lines[2], "-"))
}

func TestSignalContextCancelsOnInterrupt(t *testing.T) {
	ctx, stop := signalContext(context.Background())
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(os.Interrupt))

	select {
	case <-ctx.Done():
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
}
