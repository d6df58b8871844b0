package reltest

import (
	"fmt"
	"math/rand"
	"net/url"
	"testing"

	"github.com/flashbots/mev-fanout/config/relay"
	"github.com/stretchr/testify/require"
)

// RandomRelayURL returns a syntactically valid, unreachable relay URL.
func RandomRelayURL(tb testing.TB) *url.URL {
	tb.Helper()

	u, err := url.Parse(fmt.Sprintf("https://relay-%d.example.com/", rand.Int63())) //nolint:gosec
	require.NoError(tb, err)

	return u
}

// RandomRelayEntry returns an entry of builder with a random URL.
func RandomRelayEntry(tb testing.TB, builder relay.Builder) relay.Entry {
	tb.Helper()

	entry, err := relay.NewRelayEntry(builder, RandomRelayURL(tb).String())
	require.NoError(tb, err)

	return entry
}

// RegistryFromURLs builds a registry where every builder has the given endpoints on network.
// Builders are registered in the order of the builders slice.
func RegistryFromURLs(tb testing.TB, network relay.Network, builders []relay.Builder, urls map[relay.Builder][]string) *relay.Registry {
	tb.Helper()

	r := relay.NewRegistry()
	for _, builder := range builders {
		r.AddBuilder(builder)
		for _, u := range urls[builder] {
			require.NoError(tb, r.AddEndpoint(builder, network, u))
		}
	}

	return r
}
