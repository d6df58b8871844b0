// Package broadcast fans signed bundles and transactions out to bundle relays and
// JSON-RPC nodes concurrently.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flashbots/go-utils/signature"
	"github.com/flashbots/mev-fanout/config/relay"
	"github.com/flashbots/mev-fanout/types"
	"github.com/sirupsen/logrus"
)

// FlashbotsSignatureHeader authenticates the searcher to relays that require it.
const FlashbotsSignatureHeader = "X-Flashbots-Signature"

// Opts configures a Broadcaster.
type Opts struct {
	Log      *logrus.Entry
	Registry *relay.Registry
	Network  relay.Network

	// RequestTimeout bounds every single relay request. None if 0.
	RequestTimeout time.Duration
	// HTTPClient is shared by all requests; NewHTTPClient() is used if nil.
	HTTPClient *http.Client
	// AuthSigner, if set, signs every body into the X-Flashbots-Signature header.
	AuthSigner *signature.Signer
	UserAgent  UserAgent
	// Metrics may be shared with other broadcasters and node senders; unregistered metrics are used if nil.
	Metrics *Metrics
}

// Broadcaster sends the same bundle to every resolved relay endpoint in parallel.
type Broadcaster struct {
	log            *logrus.Entry
	registry       *relay.Registry
	network        relay.Network
	requestTimeout time.Duration
	httpClient     *http.Client
	authSigner     *signature.Signer
	userAgent      UserAgent
	metrics        *Metrics
}

// New creates a Broadcaster.
func New(opts Opts) (*Broadcaster, error) {
	if opts.Registry == nil {
		return nil, errNilRegistry
	}
	if _, err := relay.ParseNetwork(opts.Network.String()); err != nil {
		return nil, err
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.New())
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}

	return &Broadcaster{
		log:            opts.Log.WithField("module", "broadcaster"),
		registry:       opts.Registry,
		network:        opts.Network,
		requestTimeout: opts.RequestTimeout,
		httpClient:     opts.HTTPClient,
		authSigner:     opts.AuthSigner,
		userAgent:      opts.UserAgent,
		metrics:        opts.Metrics,
	}, nil
}

// request is one HTTP exchange of a fan-out.
type request struct {
	entry   relay.Entry
	method  string
	block   uint64
	body    []byte
	headers http.Header
}

// Resolve maps the requested builders to endpoints on the broadcaster's network.
// A builder that cannot be resolved is logged and skipped; the call fails only if
// nothing resolved. No builders means relay.All.
func (b *Broadcaster) Resolve(builders []relay.Builder) (relay.List, error) {
	if len(builders) == 0 {
		builders = []relay.Builder{relay.All}
	}

	var endpoints relay.List
	for _, builder := range builders {
		entries, err := b.registry.Resolve(builder, b.network)
		if err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"builder": builder,
				"network": b.network,
			}).Warn("could not resolve builder, skipping")
			continue
		}
		endpoints = append(endpoints, entries...)
	}

	if len(endpoints) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", relay.ErrNoEndpointForNetwork, joinBuilders(builders), b.network)
	}
	return endpoints, nil
}

// BroadcastBundle submits rawTxs, in order, as a bundle for targetBlock to every endpoint of builders.
func (b *Broadcaster) BroadcastBundle(ctx context.Context, rawTxs []string, targetBlock uint64, builders []relay.Builder) (types.Outcomes, error) {
	return b.BroadcastBundleRequest(ctx, types.BundleRequest{Txs: rawTxs, BlockNumber: targetBlock}, builders)
}

// BroadcastBundleRequest is BroadcastBundle with the optional bundle fields.
func (b *Broadcaster) BroadcastBundleRequest(ctx context.Context, req types.BundleRequest, builders []relay.Builder) (types.Outcomes, error) {
	return b.BroadcastBundleRange(ctx, req, builders, 1)
}

// BroadcastBundleRange submits req for blocks consecutive target blocks starting at
// req.BlockNumber. All block and endpoint combinations are dispatched at once.
//
// It returns an error only before dispatch: invalid bundle or no resolvable endpoint.
// Afterwards every endpoint failure is contained in its Outcome and the call returns
// once all requests have completed.
func (b *Broadcaster) BroadcastBundleRange(ctx context.Context, req types.BundleRequest, builders []relay.Builder, blocks int) (types.Outcomes, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if blocks < 1 {
		return nil, errInvalidBlocks
	}

	endpoints, err := b.Resolve(builders)
	if err != nil {
		return nil, err
	}

	requests := make([]request, 0, len(endpoints)*blocks)
	for i := 0; i < blocks; i++ {
		blockReq := req.ForBlock(req.BlockNumber + uint64(i))
		body, err := types.EncodeSendBundle(blockReq)
		if err != nil {
			return nil, fmt.Errorf("could not encode bundle: %w", err)
		}
		headers, err := b.authHeaders(body)
		if err != nil {
			return nil, err
		}
		for _, entry := range endpoints {
			requests = append(requests, request{
				entry:   entry,
				method:  types.MethodSendBundle,
				block:   blockReq.BlockNumber,
				body:    body,
				headers: headers,
			})
		}
	}

	log := b.log.WithFields(logrus.Fields{
		"method":    types.MethodSendBundle,
		"txs":       len(req.Txs),
		"block":     req.BlockNumber,
		"blocks":    blocks,
		"endpoints": len(endpoints),
	})
	log.Info("broadcasting bundle")

	outcomes := b.dispatch(ctx, requests, log)
	b.logSummary(log, outcomes)
	return outcomes, nil
}

// CancelBundle sends eth_cancelBundle for replacementUUID to every endpoint of builders.
func (b *Broadcaster) CancelBundle(ctx context.Context, replacementUUID string, builders []relay.Builder) (types.Outcomes, error) {
	if replacementUUID == "" {
		return nil, errEmptyUUID
	}

	endpoints, err := b.Resolve(builders)
	if err != nil {
		return nil, err
	}

	body, err := types.EncodeCancelBundle(replacementUUID)
	if err != nil {
		return nil, fmt.Errorf("could not encode cancellation: %w", err)
	}
	headers, err := b.authHeaders(body)
	if err != nil {
		return nil, err
	}

	requests := make([]request, len(endpoints))
	for i, entry := range endpoints {
		requests[i] = request{entry: entry, method: types.MethodCancelBundle, body: body, headers: headers}
	}

	log := b.log.WithFields(logrus.Fields{
		"method":          types.MethodCancelBundle,
		"replacementUuid": replacementUUID,
		"endpoints":       len(endpoints),
	})
	log.Info("cancelling bundle")

	outcomes := b.dispatch(ctx, requests, log)
	b.logSummary(log, outcomes)
	return outcomes, nil
}

func (b *Broadcaster) authHeaders(body []byte) (http.Header, error) {
	headers := http.Header{}
	if b.authSigner == nil {
		return headers, nil
	}
	sig, err := b.authSigner.Create(body)
	if err != nil {
		return nil, fmt.Errorf("could not sign request body: %w", err)
	}
	headers.Set(FlashbotsSignatureHeader, sig)
	return headers, nil
}

// dispatch runs every request in its own goroutine and waits for all of them.
// Outcomes are returned in request order.
func (b *Broadcaster) dispatch(ctx context.Context, requests []request, log *logrus.Entry) types.Outcomes {
	b.metrics.endpoints.Set(float64(len(requests)))

	outcomes := make(types.Outcomes, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req request) {
			defer wg.Done()
			outcomes[i] = b.send(ctx, req, log)
		}(i, req)
	}

	// Wait for all requests to complete...
	wg.Wait()
	return outcomes
}

func (b *Broadcaster) send(ctx context.Context, req request, log *logrus.Entry) types.Outcome {
	url := req.entry.String()
	log = log.WithFields(logrus.Fields{
		"builder": req.entry.Builder(),
		"url":     url,
	})
	if req.block != 0 {
		log = log.WithField("block", req.block)
	}

	if b.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	code, resp, raw, err := SendJSONRPC(ctx, b.httpClient, url, b.userAgent, req.headers, req.body)
	outcome := types.Outcome{
		Builder:    req.entry.Builder().String(),
		URL:        url,
		StatusCode: code,
		Response:   truncate(raw),
		Duration:   time.Since(start),
	}

	switch {
	case err != nil:
		outcome.Err = err
	case resp.Error != nil:
		outcome.Err = fmt.Errorf("%w: %w", ErrEndpointRequestFailed, resp.Error)
	default:
		outcome.Succeeded = true
	}
	b.metrics.observe(outcome.Builder, req.method, outcome.Succeeded, outcome.Duration)

	if !outcome.Succeeded {
		log.WithError(outcome.Err).WithField("code", code).Warn("error making request to relay")
		return outcome
	}

	if req.method == types.MethodSendBundle {
		result := new(types.SendBundleResult)
		if err := json.Unmarshal(resp.Result, result); err == nil && result.BundleHash != "" {
			outcome.Result = result.BundleHash
			log.WithField("bundleHash", result.BundleHash).Info("relay accepted bundle")
			return outcome
		}
		log.WithField("response", outcome.Response).Info("relay replied without bundleHash")
		return outcome
	}

	log.WithField("response", outcome.Response).Info("relay accepted request")
	return outcome
}

func (b *Broadcaster) logSummary(log *logrus.Entry, outcomes types.Outcomes) {
	succeeded := len(outcomes.Succeeded())
	log = log.WithFields(logrus.Fields{
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	})
	if succeeded == 0 {
		log.Warn("no relay accepted the request")
		return
	}
	log.Info("broadcast complete")
}

func joinBuilders(builders []relay.Builder) string {
	names := make([]string, len(builders))
	for i, builder := range builders {
		names[i] = builder.String()
	}
	return fmt.Sprint(names)
}
