package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flashbots/mev-fanout/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const appName = "mev-fanout"

var (
	errNoCommand          = errors.New("no command given, see --help")
	errNoEndpointAccepted = errors.New("no endpoint accepted the request")
)

var log = logrus.NewEntry(logrus.New())

// Main starts the mev-fanout cli
func Main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not load .env")
	}

	cmd := &cli.Command{
		Name:  appName,
		Usage: "sign and broadcast Ethereum transactions and bundles to block builders in parallel",
		Flags: flags,
		Commands: []*cli.Command{
			sendBundleCommand(),
			cancelBundleCommand(),
			sendTxCommand(),
			buildersCommand(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool(versionFlag.Name) {
				fmt.Printf("%s %s\n", appName, config.Version) //nolint
				return nil
			}
			return errNoCommand
		},
	}

	ctx, stop := signalContext(context.Background())
	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM, which aborts all in-flight requests.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// setupLogging configures the shared logger from the root flags and returns the entry to use.
func setupLogging(cmd *cli.Command) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cmd.Bool(jsonFlag.Name) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logLevel := cmd.String(logLevelFlag.Name)
	if cmd.Bool(debugFlag.Name) {
		logLevel = "debug"
	}
	if logLevel != "" {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid loglevel: %s", logLevel)
		}
		logger.SetLevel(lvl)
	}

	entry := logrus.NewEntry(logger)
	if logService := cmd.String(logServiceFlag.Name); logService != "" {
		entry = entry.WithField("service", logService)
	}

	// Add version to logs
	if !cmd.Bool(logNoVersionFlag.Name) {
		entry = entry.WithField("version", config.Version)
	}
	entry.Debug("debug logging enabled")

	log = entry
	return entry, nil
}
