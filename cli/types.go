package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/flashbots/mev-fanout/config/relay"
	"github.com/holiman/uint256"
)

var errInvalidRelayFlag = fmt.Errorf("invalid relay, expected builder=url")

// parseBuilders turns the --builder values into builders. No value means relay.All.
func parseBuilders(names []string) ([]relay.Builder, error) {
	builders := make([]relay.Builder, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		builder, err := relay.ParseBuilder(name)
		if err != nil {
			return nil, err
		}
		builders = append(builders, builder)
	}
	if len(builders) == 0 {
		return []relay.Builder{relay.All}, nil
	}
	return builders, nil
}

// parseRelayFlag splits a --relay value of the form builder=url.
func parseRelayFlag(value string) (relay.Builder, string, error) {
	name, relayURL, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(relayURL) == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidRelayFlag, value)
	}
	builder, err := relay.ParseBuilder(name)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", errInvalidRelayFlag, err)
	}
	return builder, strings.TrimSpace(relayURL), nil
}

// floatEthTo256Wei converts a float (precision 10) denominated in eth to a uint256 denominated in wei
func floatEthTo256Wei(val float64) (*uint256.Int, bool) {
	return floatTo256Wei(val, 1e18)
}

// floatGweiTo256Wei converts a float (precision 10) denominated in gwei to a uint256 denominated in wei
func floatGweiTo256Wei(val float64) (*uint256.Int, bool) {
	return floatTo256Wei(val, 1e9)
}

func floatTo256Wei(val, unit float64) (*uint256.Int, bool) {
	if val < 0 {
		return new(uint256.Int), true
	}

	unitFloat := new(big.Float)
	weiFloat := new(big.Float)
	weiFloatLessPrecise := new(big.Float)
	weiInt := new(big.Int)

	unitFloat.SetFloat64(val)
	weiFloat.Mul(unitFloat, big.NewFloat(unit))
	weiFloatLessPrecise.SetString(weiFloat.String())
	weiFloatLessPrecise.Int(weiInt)

	return uint256.FromBig(weiInt)
}
