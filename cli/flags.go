package cli

import "github.com/urfave/cli/v3"

const (
	LoggingCategory = "LOGGING AND DEBUGGING"
	GeneralCategory = "GENERAL"
	RelayCategory   = "RELAYS"
	BundleCategory  = "BUNDLE"
	AccountCategory = "ACCOUNT"
	TxCategory      = "TRANSACTION"
)

var flags = []cli.Flag{
	// general
	versionFlag,
	// logging
	jsonFlag,
	debugFlag,
	logLevelFlag,
	logServiceFlag,
	logNoVersionFlag,
}

var relayFlags = []cli.Flag{
	networkFlag,
	builderFlag,
	relayConfigFlag,
	relayFlag,
	authKeyFlag,
	requestTimeoutFlag,
}

var (
	// General
	versionFlag = &cli.BoolFlag{
		Name:     "version",
		Usage:    "print version",
		Category: GeneralCategory,
	}
	// Logging and debugging
	jsonFlag = &cli.BoolFlag{
		Name:     "json",
		Sources:  cli.EnvVars("LOG_JSON"),
		Usage:    "log in JSON format instead of text",
		Category: LoggingCategory,
	}
	debugFlag = &cli.BoolFlag{
		Name:     "debug",
		Sources:  cli.EnvVars("DEBUG"),
		Usage:    "shorthand for '--loglevel debug'",
		Category: LoggingCategory,
	}
	logLevelFlag = &cli.StringFlag{
		Name:     "loglevel",
		Sources:  cli.EnvVars("LOG_LEVEL"),
		Value:    "info",
		Usage:    "minimum loglevel: trace, debug, info, warn/warning, error, fatal, panic",
		Category: LoggingCategory,
	}
	logServiceFlag = &cli.StringFlag{
		Name:     "log-service",
		Sources:  cli.EnvVars("LOG_SERVICE_TAG"),
		Value:    "",
		Usage:    "add a 'service=...' tag to all log messages",
		Category: LoggingCategory,
	}
	logNoVersionFlag = &cli.BoolFlag{
		Name:     "log-no-version",
		Sources:  cli.EnvVars("DISABLE_LOG_VERSION"),
		Usage:    "disables adding the version to every log entry",
		Category: LoggingCategory,
	}
	// Relay
	networkFlag = &cli.StringFlag{
		Name:     "network",
		Sources:  cli.EnvVars("NETWORK"),
		Value:    "mainnet",
		Usage:    "network to resolve relay endpoints for: mainnet, goerli, sepolia",
		Category: RelayCategory,
	}
	builderFlag = &cli.StringSliceFlag{
		Name:     "builder",
		Aliases:  []string{"builders"},
		Sources:  cli.EnvVars("BUILDERS"),
		Usage:    "builder to send to - single entry or comma-separated list, 'all' for every known builder",
		Category: RelayCategory,
	}
	relayConfigFlag = &cli.StringFlag{
		Name:     "relay-config",
		Sources:  cli.EnvVars("RELAY_CONFIG"),
		Usage:    "path to a YAML file adding or replacing builder endpoints",
		Category: RelayCategory,
	}
	relayFlag = &cli.StringSliceFlag{
		Name:     "relay",
		Sources:  cli.EnvVars("RELAYS"),
		Usage:    "additional endpoint as builder=url, can be specified multiple times",
		Category: RelayCategory,
	}
	authKeyFlag = &cli.StringFlag{
		Name:     "auth-key",
		Sources:  cli.EnvVars("FLASHBOTS_AUTH_KEY"),
		Usage:    "private key signing the X-Flashbots-Signature header (hex)",
		Category: RelayCategory,
	}
	requestTimeoutFlag = &cli.IntFlag{
		Name:     "request-timeout",
		Sources:  cli.EnvVars("REQUEST_TIMEOUT_MS"),
		Usage:    "timeout for a single request to a relay or node [ms]",
		Value:    5000,
		Category: RelayCategory,
	}
	// Bundle
	rawTxFlag = &cli.StringSliceFlag{
		Name:     "raw-tx",
		Aliases:  []string{"tx"},
		Usage:    "signed raw transaction (0x hex), can be specified multiple times; order is execution order",
		Category: BundleCategory,
	}
	blockFlag = &cli.UintFlag{
		Name:     "block",
		Usage:    "target block number",
		Required: true,
		Category: BundleCategory,
	}
	blocksFlag = &cli.IntFlag{
		Name:     "blocks",
		Usage:    "number of consecutive target blocks, starting at --block",
		Value:    1,
		Category: BundleCategory,
	}
	minTimestampFlag = &cli.UintFlag{
		Name:     "min-timestamp",
		Usage:    "minimum block timestamp for the bundle to be valid (unix seconds)",
		Category: BundleCategory,
	}
	maxTimestampFlag = &cli.UintFlag{
		Name:     "max-timestamp",
		Usage:    "maximum block timestamp for the bundle to be valid (unix seconds)",
		Category: BundleCategory,
	}
	revertingTxHashFlag = &cli.StringSliceFlag{
		Name:     "reverting-tx-hash",
		Usage:    "hash of a bundle transaction that is allowed to revert, can be specified multiple times",
		Category: BundleCategory,
	}
	replacementUUIDFlag = &cli.StringFlag{
		Name:     "replacement-uuid",
		Usage:    "uuid under which the bundle can be replaced or cancelled",
		Category: BundleCategory,
	}
	newReplacementUUIDFlag = &cli.BoolFlag{
		Name:     "new-replacement-uuid",
		Usage:    "generate a random replacement uuid and print it",
		Category: BundleCategory,
	}
	// Account
	privateKeyFlag = &cli.StringFlag{
		Name:     "private-key",
		Sources:  cli.EnvVars("PRIVATE_KEY"),
		Usage:    "sender private key (hex, 0x prefix optional)",
		Category: AccountCategory,
	}
	mnemonicFlag = &cli.StringFlag{
		Name:     "mnemonic",
		Sources:  cli.EnvVars("MNEMONIC"),
		Usage:    "sender BIP-39 mnemonic",
		Category: AccountCategory,
	}
	derivationPathFlag = &cli.StringFlag{
		Name:     "derivation-path",
		Sources:  cli.EnvVars("DERIVATION_PATH"),
		Usage:    "derivation path used with --mnemonic (default m/44'/60'/0'/0/0)",
		Category: AccountCategory,
	}
	// Transaction
	rpcFlag = &cli.StringSliceFlag{
		Name:     "rpc",
		Sources:  cli.EnvVars("ETH_RPC_URLS"),
		Usage:    "node JSON-RPC url - single entry or comma-separated list",
		Category: TxCategory,
	}
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "recipient address",
		Category: TxCategory,
	}
	valueFlag = &cli.FloatFlag{
		Name:     "value",
		Usage:    "value to transfer [eth]",
		Category: TxCategory,
	}
	gasLimitFlag = &cli.UintFlag{
		Name:     "gas-limit",
		Usage:    "gas limit",
		Value:    21000,
		Category: TxCategory,
	}
	maxFeeFlag = &cli.FloatFlag{
		Name:     "max-fee",
		Usage:    "max fee per gas [gwei]",
		Value:    30,
		Category: TxCategory,
	}
	priorityFeeFlag = &cli.FloatFlag{
		Name:     "priority-fee",
		Usage:    "max priority fee per gas [gwei]",
		Value:    1,
		Category: TxCategory,
	}
	dataFlag = &cli.StringFlag{
		Name:     "data",
		Usage:    "call data (0x hex)",
		Category: TxCategory,
	}
	signedTxFlag = &cli.StringFlag{
		Name:     "raw-tx",
		Usage:    "relay this pre-signed transaction instead of building one",
		Category: TxCategory,
	}
)
