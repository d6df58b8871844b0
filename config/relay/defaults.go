package relay

// DefaultEndpoints is the compiled-in table of bundle endpoints per builder and network.
// A builder without an entry for a network does not accept bundles there.
var DefaultEndpoints = map[Builder]map[Network][]string{
	Flashbots: {
		Mainnet: {"https://relay.flashbots.net/"},
		Goerli:  {"https://relay-goerli.flashbots.net/"},
		Sepolia: {"https://relay-sepolia.flashbots.net"},
	},
	BeaverBuild: {Mainnet: {"https://rpc.beaverbuild.org/"}},
	Rsync:       {Mainnet: {"https://rsync-builder.xyz/"}},
	Builder0x69: {Mainnet: {"https://builder0x69.io/"}},
	GambitLabs:  {Mainnet: {"https://builder.gmbit.co/rpc/"}},
	EthBuilder:  {Mainnet: {"https://eth-builder.com/"}},
	Titan: {
		Mainnet: {"https://rpc.titanbuilder.xyz/", "https://eu.rpc.titanbuilder.xyz/"},
	},
	BuildAI: {
		Mainnet: {"https://buildai.net/"},
		Goerli:  {"https://buildai.net/goerli/"},
	},
	Payload:      {Mainnet: {"https://rpc.payload.de/"}},
	Lightspeed:   {Mainnet: {"https://rpc.lightspeedbuilder.info/"}},
	NFactorial:   {Mainnet: {"https://rpc.nfactorial.xyz/"}},
	BobaBuilder:  {Mainnet: {"https://boba-builder.com/searcher/bundle"}},
	F1b:          {Mainnet: {"https://rpc.f1b.io/"}},
	JetBldr:      {Mainnet: {"https://rpc.jetbldr.xyz/"}},
	PenguinBuild: {Mainnet: {"https://rpc.penguinbuild.org/"}},
	LokiBuild:    {Mainnet: {"https://rpc.lokibuilder.xyz/"}},
	EdenNetwork: {
		Mainnet: {"https://api.edennetwork.io/v1/bundle/"},
		Goerli:  {"https://goerli.edennetwork.io/v1/bundle/"},
	},
	TBuilder:        {Mainnet: {"https://rpc.tbuilder.xyz/"}},
	Eigenphi:        {Mainnet: {"https://builder.eigenphi.io/"}},
	BlockBeelder:    {Mainnet: {"https://blockbeelder.com/rpc/"}},
	ManifoldFinance: {Mainnet: {"https://api.securerpc.com/v1/"}},
	PandaBuild:      {Mainnet: {"https://rpc.pandabuilder.io/"}},
	SmithBot:        {Mainnet: {"https://smithbot.xyz/"}},
}
