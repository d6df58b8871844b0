package relay

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBuilder is returned when a builder name is not in the registry.
	ErrUnknownBuilder = errors.New("unknown builder")
	// ErrUnknownNetwork is returned when a network name or chain id is not supported.
	ErrUnknownNetwork = errors.New("unknown network")
)

// Builder identifies a block builder / relay operator accepting bundles.
type Builder string

// All is the synthetic builder meaning every known builder.
const All Builder = "all"

// Known builders, in resolution order.
// https://www.mev.to/builders
const (
	Flashbots       Builder = "flashbots"
	BeaverBuild     Builder = "beaverbuild"
	Rsync           Builder = "rsync"
	Builder0x69     Builder = "0x69"
	GambitLabs      Builder = "gambitlabs"
	EthBuilder      Builder = "ethbuilder"
	Titan           Builder = "titan"
	BuildAI         Builder = "buildai"
	Payload         Builder = "payload"
	Lightspeed      Builder = "lightspeed"
	NFactorial      Builder = "nfactorial"
	BobaBuilder     Builder = "bobabuilder"
	F1b             Builder = "f1b"
	JetBldr         Builder = "jetbldr"
	PenguinBuild    Builder = "penguinbuild"
	LokiBuild       Builder = "loki"
	EdenNetwork     Builder = "edennetwork"
	TBuilder        Builder = "tbuilder"
	Eigenphi        Builder = "eigenphi"
	BlockBeelder    Builder = "blockbeelder"
	ManifoldFinance Builder = "manifoldfinance"
	PandaBuild      Builder = "pandabuild"
	SmithBot        Builder = "smithbot"
)

var knownBuilders = []Builder{
	Flashbots,
	BeaverBuild,
	Rsync,
	Builder0x69,
	GambitLabs,
	EthBuilder,
	Titan,
	BuildAI,
	Payload,
	Lightspeed,
	NFactorial,
	BobaBuilder,
	F1b,
	JetBldr,
	PenguinBuild,
	LokiBuild,
	EdenNetwork,
	TBuilder,
	Eigenphi,
	BlockBeelder,
	ManifoldFinance,
	PandaBuild,
	SmithBot,
}

// Builders returns the compiled-in builders in their fixed order. All is not included.
func Builders() []Builder {
	out := make([]Builder, len(knownBuilders))
	copy(out, knownBuilders)
	return out
}

func (b Builder) String() string {
	return string(b)
}

// ParseBuilder normalizes a builder name. Any non-empty name is accepted so that
// builders added through a relay config file can be addressed; the registry decides
// whether it knows the builder.
func ParseBuilder(name string) (Builder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownBuilder)
	}
	return Builder(name), nil
}

// Network is an Ethereum network with bundle relay support.
type Network string

const (
	Mainnet Network = "mainnet"
	Goerli  Network = "goerli"
	Sepolia Network = "sepolia"
)

var chainIDs = map[Network]uint64{
	Mainnet: 1,
	Goerli:  5,
	Sepolia: 11155111,
}

// Networks returns the supported networks.
func Networks() []Network {
	return []Network{Mainnet, Goerli, Sepolia}
}

func (n Network) String() string {
	return string(n)
}

// ChainID returns the EIP-155 chain id of the network.
func (n Network) ChainID() uint64 {
	return chainIDs[n]
}

// ParseNetwork parses a network name.
func ParseNetwork(name string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := chainIDs[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return n, nil
}

// NetworkFromChainID maps an EIP-155 chain id to a network.
func NetworkFromChainID(chainID uint64) (Network, error) {
	for n, id := range chainIDs {
		if id == chainID {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: chain id %d", ErrUnknownNetwork, chainID)
}
