package broadcast

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/flashbots/mev-fanout/account"
	"github.com/flashbots/mev-fanout/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	methodSendRawTransaction  = "eth_sendRawTransaction"
	methodGetTransactionCount = "eth_getTransactionCount"
	nodeBuilderLabel          = "node"
)

// RawTxSender sends one signed transaction and reports the result per endpoint.
type RawTxSender interface {
	SendRawTransaction(ctx context.Context, rawTx []byte) types.Outcomes
}

var _ RawTxSender = (*NodeSender)(nil)

// NodeSenderOpts configures a NodeSender.
type NodeSenderOpts struct {
	Log *logrus.Entry
	// RequestTimeout bounds every single node request. None if 0.
	RequestTimeout time.Duration
	// HTTPClient is shared by all node connections; NewHTTPClient() is used if nil.
	HTTPClient *http.Client
	// Metrics may be shared with a Broadcaster; unregistered metrics are used if nil.
	Metrics *Metrics
}

type node struct {
	url string
	rpc *rpc.Client
	eth *ethclient.Client
}

// NodeSender sends plain transactions to several independent JSON-RPC nodes in parallel.
type NodeSender struct {
	log            *logrus.Entry
	nodes          []node
	requestTimeout time.Duration
	metrics        *Metrics
}

// NewNodeSender connects to every http(s) URL in urls. Other URLs are skipped.
// It fails with ErrNoEndpointsConfigured if no URL is usable.
func NewNodeSender(ctx context.Context, urls []string, opts NodeSenderOpts) (*NodeSender, error) {
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.New())
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	log := opts.Log.WithField("module", "node-sender")

	s := &NodeSender{
		log:            log,
		requestTimeout: opts.RequestTimeout,
		metrics:        opts.Metrics,
	}

	for _, rawURL := range urls {
		rawURL = strings.TrimSpace(rawURL)
		if !isHTTPURL(rawURL) {
			log.WithField("url", rawURL).Warn("skipping non-http node url")
			continue
		}

		client, err := rpc.DialOptions(ctx, rawURL, rpc.WithHTTPClient(opts.HTTPClient))
		if err != nil {
			log.WithError(err).WithField("url", rawURL).Warn("skipping node")
			continue
		}
		s.nodes = append(s.nodes, node{url: rawURL, rpc: client, eth: ethclient.NewClient(client)})
	}

	if len(s.nodes) == 0 {
		return nil, ErrNoEndpointsConfigured
	}
	return s, nil
}

func isHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// URLs returns the node URLs in use.
func (s *NodeSender) URLs() []string {
	urls := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		urls[i] = n.url
	}
	return urls
}

// Close releases the node connections.
func (s *NodeSender) Close() {
	for _, n := range s.nodes {
		n.rpc.Close()
	}
}

// SendRawTransaction sends rawTx to every node and waits for all of them.
// Each outcome carries the transaction hash returned by that node.
func (s *NodeSender) SendRawTransaction(ctx context.Context, rawTx []byte) types.Outcomes {
	encoded := hexutil.Encode(rawTx)
	log := s.log.WithFields(logrus.Fields{
		"method": methodSendRawTransaction,
		"nodes":  len(s.nodes),
	})

	outcomes := s.each(ctx, methodSendRawTransaction, func(ctx context.Context, n node) (string, error) {
		var hash common.Hash
		if err := n.rpc.CallContext(ctx, &hash, methodSendRawTransaction, encoded); err != nil {
			return "", err
		}
		return hash.Hex(), nil
	})

	for _, outcome := range outcomes {
		if outcome.Succeeded {
			log.WithFields(logrus.Fields{"url": outcome.URL, "txHash": outcome.Result}).Info("node accepted transaction")
		} else {
			log.WithError(outcome.Err).WithField("url", outcome.URL).Warn("error sending transaction to node")
		}
	}
	return outcomes
}

// SendTransaction encodes an already signed transaction and sends it to every node.
func (s *NodeSender) SendTransaction(ctx context.Context, tx *gethtypes.Transaction) (types.Outcomes, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("could not encode transaction: %w", err)
	}
	return s.SendRawTransaction(ctx, raw), nil
}

// SignAndSend signs tx once with acct and sends the result to every node.
func (s *NodeSender) SignAndSend(ctx context.Context, acct *account.Account, tx *gethtypes.Transaction, chainID *big.Int) (types.Outcomes, error) {
	signed, err := acct.SignTransaction(ctx, tx, chainID)
	if err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, signed)
}

// SyncNonce asks every node for the pending nonce of the tracker's account and raises
// the tracker to the highest answer. Nodes that fail are reported in the outcomes.
func (s *NodeSender) SyncNonce(ctx context.Context, tracker *account.NonceTracker) types.Outcomes {
	outcomes := s.each(ctx, methodGetTransactionCount, func(ctx context.Context, n node) (string, error) {
		nonce, err := n.eth.PendingNonceAt(ctx, tracker.Address())
		if err != nil {
			return "", err
		}
		tracker.Observe(nonce)
		return strconv.FormatUint(nonce, 10), nil
	})

	s.log.WithFields(logrus.Fields{
		"address":   tracker.Address().Hex(),
		"nonce":     tracker.Current(),
		"succeeded": len(outcomes.Succeeded()),
	}).Debug("synced nonce")
	return outcomes
}

// ChainID returns the chain id reported by the first node that answers, in node order.
func (s *NodeSender) ChainID(ctx context.Context) (*big.Int, error) {
	var lastErr error
	for _, n := range s.nodes {
		reqCtx, cancel := s.requestContext(ctx)
		chainID, err := n.eth.ChainID(reqCtx)
		cancel()
		if err == nil {
			return chainID, nil
		}
		s.log.WithError(err).WithField("url", n.url).Warn("could not get chain id")
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %w", errNoNodeAnswered, lastErr)
}

func (s *NodeSender) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(ctx, s.requestTimeout)
	}
	return context.WithCancel(ctx)
}

// each runs call against every node concurrently and collects one outcome per node,
// in node order. A failing node never cancels the others.
func (s *NodeSender) each(ctx context.Context, method string, call func(context.Context, node) (string, error)) types.Outcomes {
	outcomes := make(types.Outcomes, len(s.nodes))
	var mu sync.Mutex

	var g errgroup.Group
	for i, n := range s.nodes {
		i, n := i, n
		g.Go(func() error {
			reqCtx, cancel := s.requestContext(ctx)
			defer cancel()

			start := time.Now()
			result, err := call(reqCtx, n)
			outcome := types.Outcome{
				Builder:   nodeBuilderLabel,
				URL:       n.url,
				Succeeded: err == nil,
				Result:    result,
				Duration:  time.Since(start),
			}
			if err != nil {
				outcome.Err = fmt.Errorf("%w: %w", ErrEndpointRequestFailed, err)
			}
			s.metrics.observe(nodeBuilderLabel, method, outcome.Succeeded, outcome.Duration)

			mu.Lock()
			defer mu.Unlock()
			outcomes[i] = outcome
			return nil
		})
	}

	// errors are carried in the outcomes
	_ = g.Wait()
	return outcomes
}
