package broadcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/flashbots/mev-fanout/types"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// mockRelay is used to fake a bundle relay's behavior.
// Set handlerOverride to replace the default eth_sendBundle / eth_cancelBundle handler.
type mockRelay struct {
	t *testing.T

	// Used to count each request made to the relay, either if it fails or not, for each method
	mu           sync.Mutex
	requestCount map[string]int
	lastBody     []byte
	lastHeaders  http.Header

	handlerOverride func(w http.ResponseWriter, req *http.Request)

	// BundleHash is returned in the default eth_sendBundle result
	BundleHash string

	Server        *httptest.Server
	responseDelay time.Duration
}

func newMockRelay(t *testing.T) *mockRelay {
	t.Helper()

	relay := &mockRelay{
		t:            t,
		requestCount: make(map[string]int),
		BundleHash:   "0x2228f5d8954ce31dc1601a8ba264dbd401bf1428388ce88238932815c5d6f23f",
	}
	relay.Server = httptest.NewServer(relay.getRouter())
	t.Cleanup(relay.Server.Close)
	return relay
}

// newTestMiddleware records the request and creates a fake delay for the response
func (m *mockRelay) newTestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(m.t, err)

			req := new(types.JSONRPCRequest)
			method := "invalid"
			if err := json.Unmarshal(body, req); err == nil {
				method = req.Method
			}

			m.mu.Lock()
			m.requestCount[method]++
			m.lastBody = body
			m.lastHeaders = r.Header.Clone()
			delay := m.responseDelay
			m.mu.Unlock()

			// Artificial Delay
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-r.Context().Done():
					return
				}
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		},
	)
}

func (m *mockRelay) getRouter() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", m.handleRPC).Methods(http.MethodPost)
	return m.newTestMiddleware(r)
}

// GetRequestCount returns the number of requests made for a JSON-RPC method
func (m *mockRelay) GetRequestCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[method]
}

// LastRequest returns the body and headers of the last request
func (m *mockRelay) LastRequest() ([]byte, http.Header) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBody, m.lastHeaders
}

func (m *mockRelay) setResponseDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responseDelay = d
}

func (m *mockRelay) overrideHandler(h func(w http.ResponseWriter, req *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlerOverride = h
}

func (m *mockRelay) handleRPC(w http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	override := m.handlerOverride
	m.mu.Unlock()
	if override != nil {
		override(w, req)
		return
	}

	rpcReq := new(types.JSONRPCRequest)
	if err := json.NewDecoder(req.Body).Decode(rpcReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch rpcReq.Method {
	case types.MethodSendBundle:
		fmt.Fprintf(w, `{"id":%d,"jsonrpc":"2.0","result":{"bundleHash":"%s"}}`, rpcReq.ID, m.BundleHash)
	case types.MethodCancelBundle:
		fmt.Fprintf(w, `{"id":%d,"jsonrpc":"2.0","result":null}`, rpcReq.ID)
	default:
		fmt.Fprintf(w, `{"id":%d,"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"}}`, rpcReq.ID)
	}
}

// respondWith returns a handler writing a fixed status and body
func respondWith(code int, body string) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}
