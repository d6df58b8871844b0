package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/flashbots/mev-fanout/config"
	"github.com/flashbots/mev-fanout/types"
)

// UserAgent is a custom string type to avoid confusing url + userAgent parameters in SendJSONRPC
type UserAgent string

// NewHTTPClient returns the client shared by all concurrent requests. Per-request deadlines
// come from the request context, so the client itself has no timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
			IdleConnTimeout:     time.Duration(config.HTTPIdleConnTimeoutMs) * time.Millisecond,
			TLSHandshakeTimeout: 5 * time.Second,
		},
		CheckRedirect: httpClientDisallowRedirects,
	}
}

// SendJSONRPC posts an encoded JSON-RPC body to url and decodes the reply.
//
// A transport error, a non-2xx status or an unparsable body is returned as an error wrapping
// ErrEndpointRequestFailed. A JSON-RPC error object is not an error here; callers inspect
// resp.Error. The raw body is returned whenever one was read.
func SendJSONRPC(ctx context.Context, client *http.Client, url string, userAgent UserAgent, headers http.Header, body []byte) (code int, resp *types.JSONRPCResponse, raw []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: could not prepare request: %w", ErrEndpointRequestFailed, err)
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", strings.TrimSpace(fmt.Sprintf("mev-fanout/%s %s", config.Version, userAgent)))

	// Execute request
	httpResp, err := client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: %w", ErrEndpointRequestFailed, err)
	}
	defer httpResp.Body.Close()

	raw, err = io.ReadAll(io.LimitReader(httpResp.Body, int64(config.MaxResponseBytes)))
	if err != nil {
		return httpResp.StatusCode, nil, nil, fmt.Errorf("%w: could not read response body: %w", ErrEndpointRequestFailed, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, nil, raw, fmt.Errorf("%w: HTTP error response: %d / %s", ErrEndpointRequestFailed, httpResp.StatusCode, truncate(raw))
	}

	resp = new(types.JSONRPCResponse)
	if err := json.Unmarshal(raw, resp); err != nil {
		return httpResp.StatusCode, nil, raw, fmt.Errorf("%w: %w: %w", ErrEndpointRequestFailed, ErrResponseParseFailed, err)
	}

	return httpResp.StatusCode, resp, raw, nil
}

// truncate shortens a response body for logs and outcomes.
func truncate(raw []byte) string {
	if len(raw) <= config.LoggedResponseBytes {
		return string(raw)
	}
	return string(raw[:config.LoggedResponseBytes]) + "..."
}

func httpClientDisallowRedirects(_ *http.Request, _ []*http.Request) error {
	return http.ErrUseLastResponse
}
