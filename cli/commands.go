package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/flashbots/go-utils/signature"
	"github.com/flashbots/mev-fanout/account"
	"github.com/flashbots/mev-fanout/broadcast"
	"github.com/flashbots/mev-fanout/config/relay"
	"github.com/flashbots/mev-fanout/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var (
	errConflictingUUIDFlags = errors.New("--replacement-uuid and --new-replacement-uuid are mutually exclusive")
	errInvalidAddress       = errors.New("invalid recipient address")
	errInvalidAmount        = errors.New("invalid amount")
)

func sendBundleCommand() *cli.Command {
	return &cli.Command{
		Name:  "send-bundle",
		Usage: "send a bundle of signed transactions to the selected builders",
		Flags: append([]cli.Flag{
			rawTxFlag,
			blockFlag,
			blocksFlag,
			minTimestampFlag,
			maxTimestampFlag,
			revertingTxHashFlag,
			replacementUUIDFlag,
			newReplacementUUIDFlag,
		}, relayFlags...),
		Action: sendBundle,
	}
}

func cancelBundleCommand() *cli.Command {
	return &cli.Command{
		Name:   "cancel-bundle",
		Usage:  "cancel a bundle by its replacement uuid on the selected builders",
		Flags:  append([]cli.Flag{replacementUUIDFlag}, relayFlags...),
		Action: cancelBundle,
	}
}

func sendTxCommand() *cli.Command {
	return &cli.Command{
		Name:  "send-tx",
		Usage: "sign a transaction and send it to every node",
		Flags: []cli.Flag{
			rpcFlag,
			requestTimeoutFlag,
			privateKeyFlag,
			mnemonicFlag,
			derivationPathFlag,
			toFlag,
			valueFlag,
			gasLimitFlag,
			maxFeeFlag,
			priorityFeeFlag,
			dataFlag,
			signedTxFlag,
		},
		Action: sendTx,
	}
}

func buildersCommand() *cli.Command {
	return &cli.Command{
		Name:   "builders",
		Usage:  "print the endpoints of every builder on a network",
		Flags:  []cli.Flag{networkFlag, relayConfigFlag, relayFlag},
		Action: printBuildersAction,
	}
}

func sendBundle(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogging(cmd)
	if err != nil {
		return err
	}

	uuidStr, err := replacementUUID(cmd.String(replacementUUIDFlag.Name), cmd.Bool(newReplacementUUIDFlag.Name))
	if err != nil {
		return err
	}
	if cmd.Bool(newReplacementUUIDFlag.Name) {
		fmt.Printf("replacement uuid: %s\n", uuidStr) //nolint
	}

	req := types.BundleRequest{
		Txs:               cmd.StringSlice(rawTxFlag.Name),
		BlockNumber:       cmd.Uint(blockFlag.Name),
		RevertingTxHashes: cmd.StringSlice(revertingTxHashFlag.Name),
		ReplacementUUID:   uuidStr,
	}
	if cmd.IsSet(minTimestampFlag.Name) {
		minTimestamp := cmd.Uint(minTimestampFlag.Name)
		req.MinTimestamp = &minTimestamp
	}
	if cmd.IsSet(maxTimestampFlag.Name) {
		maxTimestamp := cmd.Uint(maxTimestampFlag.Name)
		req.MaxTimestamp = &maxTimestamp
	}

	builders, err := parseBuilders(cmd.StringSlice(builderFlag.Name))
	if err != nil {
		return err
	}
	b, err := newBroadcaster(cmd, log)
	if err != nil {
		return err
	}

	outcomes, err := b.BroadcastBundleRange(ctx, req, builders, int(cmd.Int(blocksFlag.Name)))
	if err != nil {
		return err
	}
	return report(os.Stdout, outcomes)
}

func cancelBundle(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogging(cmd)
	if err != nil {
		return err
	}

	uuidStr, err := replacementUUID(cmd.String(replacementUUIDFlag.Name), false)
	if err != nil {
		return err
	}
	builders, err := parseBuilders(cmd.StringSlice(builderFlag.Name))
	if err != nil {
		return err
	}
	b, err := newBroadcaster(cmd, log)
	if err != nil {
		return err
	}

	outcomes, err := b.CancelBundle(ctx, uuidStr, builders)
	if err != nil {
		return err
	}
	return report(os.Stdout, outcomes)
}

func sendTx(ctx context.Context, cmd *cli.Command) error {
	log, err := setupLogging(cmd)
	if err != nil {
		return err
	}

	sender, err := broadcast.NewNodeSender(ctx, cmd.StringSlice(rpcFlag.Name), broadcast.NodeSenderOpts{
		Log:            log,
		RequestTimeout: time.Duration(cmd.Int(requestTimeoutFlag.Name)) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer sender.Close()

	if signed := cmd.String(signedTxFlag.Name); signed != "" {
		rawTx, err := hexutil.Decode(signed)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrMalformedTx, err)
		}
		return report(os.Stdout, sender.SendRawTransaction(ctx, rawTx))
	}

	acct, err := account.New(account.KeyMaterial{
		PrivateKey:     cmd.String(privateKeyFlag.Name),
		Mnemonic:       cmd.String(mnemonicFlag.Name),
		DerivationPath: cmd.String(derivationPathFlag.Name),
	})
	if err != nil {
		return err
	}
	log = log.WithField("from", acct.Address())

	chainID, err := sender.ChainID(ctx)
	if err != nil {
		return err
	}

	tracker := account.NewNonceTracker(acct.AddressBytes())
	if synced := sender.SyncNonce(ctx, tracker); !synced.AnySucceeded() {
		return fmt.Errorf("could not get nonce: %w", synced.Err())
	}
	nonce, err := tracker.Reserve()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"nonce": nonce, "chainId": chainID}).Info("sending transaction")

	tx, err := buildTransaction(txOpts{
		To:              cmd.String(toFlag.Name),
		ValueEth:        cmd.Float(valueFlag.Name),
		GasLimit:        cmd.Uint(gasLimitFlag.Name),
		MaxFeeGwei:      cmd.Float(maxFeeFlag.Name),
		PriorityFeeGwei: cmd.Float(priorityFeeFlag.Name),
		Data:            cmd.String(dataFlag.Name),
	}, nonce, chainID)
	if err != nil {
		return err
	}

	outcomes, err := sender.SignAndSend(ctx, acct, tx, chainID)
	if err != nil {
		return err
	}
	return report(os.Stdout, outcomes)
}

func printBuildersAction(_ context.Context, cmd *cli.Command) error {
	if _, err := setupLogging(cmd); err != nil {
		return err
	}
	network, registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	return printBuilders(os.Stdout, registry, network)
}

// loadRegistry resolves --network and builds the registry from the defaults, --relay-config and --relay.
func loadRegistry(cmd *cli.Command) (relay.Network, *relay.Registry, error) {
	network, err := relay.ParseNetwork(cmd.String(networkFlag.Name))
	if err != nil {
		return "", nil, err
	}

	registry, err := relay.LoadRegistry(cmd.String(relayConfigFlag.Name))
	if err != nil {
		return "", nil, err
	}

	for _, value := range cmd.StringSlice(relayFlag.Name) {
		builder, relayURL, err := parseRelayFlag(value)
		if err != nil {
			return "", nil, err
		}
		if err := registry.AddEndpoint(builder, network, relayURL); err != nil {
			return "", nil, err
		}
	}
	return network, registry, nil
}

func newBroadcaster(cmd *cli.Command, log *logrus.Entry) (*broadcast.Broadcaster, error) {
	network, registry, err := loadRegistry(cmd)
	if err != nil {
		return nil, err
	}

	var authSigner *signature.Signer
	if authKey := cmd.String(authKeyFlag.Name); authKey != "" {
		authSigner, err = signature.NewSignerFromHexPrivateKey(authKey)
		if err != nil {
			return nil, fmt.Errorf("invalid auth key: %w", err)
		}
		log.WithField("authAddress", authSigner.Address().Hex()).Debug("signing relay requests")
	}

	return broadcast.New(broadcast.Opts{
		Log:            log,
		Registry:       registry,
		Network:        network,
		RequestTimeout: time.Duration(cmd.Int(requestTimeoutFlag.Name)) * time.Millisecond,
		AuthSigner:     authSigner,
		UserAgent:      broadcast.UserAgent(appName),
	})
}

// replacementUUID validates a given uuid, or generates one if requested.
func replacementUUID(given string, generate bool) (string, error) {
	if generate {
		if given != "" {
			return "", errConflictingUUIDFlags
		}
		return uuid.NewString(), nil
	}
	if given == "" {
		return "", nil
	}
	parsed, err := uuid.Parse(given)
	if err != nil {
		return "", fmt.Errorf("invalid replacement uuid: %w", err)
	}
	return parsed.String(), nil
}

type txOpts struct {
	To              string
	ValueEth        float64
	GasLimit        uint64
	MaxFeeGwei      float64
	PriorityFeeGwei float64
	Data            string
}

// buildTransaction assembles an unsigned EIP-1559 transaction. An empty To creates a contract.
func buildTransaction(opts txOpts, nonce uint64, chainID *big.Int) (*gethtypes.Transaction, error) {
	var to *common.Address
	if opts.To != "" {
		if !common.IsHexAddress(opts.To) {
			return nil, fmt.Errorf("%w: %s", errInvalidAddress, opts.To)
		}
		addr := common.HexToAddress(opts.To)
		to = &addr
	}

	value, overflow := floatEthTo256Wei(opts.ValueEth)
	if overflow {
		return nil, fmt.Errorf("%w: value %v eth", errInvalidAmount, opts.ValueEth)
	}
	maxFee, overflow := floatGweiTo256Wei(opts.MaxFeeGwei)
	if overflow {
		return nil, fmt.Errorf("%w: max fee %v gwei", errInvalidAmount, opts.MaxFeeGwei)
	}
	priorityFee, overflow := floatGweiTo256Wei(opts.PriorityFeeGwei)
	if overflow || priorityFee.Gt(maxFee) {
		return nil, fmt.Errorf("%w: priority fee %v gwei", errInvalidAmount, opts.PriorityFeeGwei)
	}

	var data []byte
	if opts.Data != "" {
		var err error
		if data, err = hexutil.Decode(opts.Data); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}

	return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: priorityFee.ToBig(),
		GasFeeCap: maxFee.ToBig(),
		Gas:       opts.GasLimit,
		To:        to,
		Value:     value.ToBig(),
		Data:      data,
	}), nil
}

// report prints one line per endpoint and fails if no endpoint accepted the request.
func report(w io.Writer, outcomes types.Outcomes) error {
	for _, outcome := range outcomes {
		fmt.Fprintln(w, outcome.String())
	}
	succeeded := len(outcomes.Succeeded())
	fmt.Fprintf(w, "%d/%d endpoints accepted\n", succeeded, len(outcomes))

	if succeeded > 0 {
		return nil
	}
	if err := outcomes.Err(); err != nil {
		return fmt.Errorf("%w: %w", errNoEndpointAccepted, err)
	}
	return errNoEndpointAccepted
}

func printBuilders(w io.Writer, registry *relay.Registry, network relay.Network) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "BUILDER\tENDPOINT\n")
	for _, builder := range registry.Builders() {
		entries, err := registry.Resolve(builder, network)
		if errors.Is(err, relay.ErrNoEndpointForNetwork) {
			fmt.Fprintf(tw, "%s\t-\n", builder)
			continue
		}
		if err != nil {
			return err
		}
		for _, entry := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", builder, entry)
		}
	}
	return tw.Flush()
}
