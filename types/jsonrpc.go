package types

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the only protocol version relays speak.
const JSONRPCVersion = "2.0"

// JSONRPCRequest is a JSON-RPC 2.0 request. The id is fixed at 1: every request is sent
// on its own HTTP exchange so there is nothing to correlate.
type JSONRPCRequest struct {
	ID      int               `json:"id"`
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// JSONRPCResponse is a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	ID      json.RawMessage `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError is the error object of a JSON-RPC response.
type JSONRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("json-rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// WrapJSONRPCMethod wraps already encoded params into a request body for method.
func WrapJSONRPCMethod(method string, params ...json.RawMessage) ([]byte, error) {
	if params == nil {
		params = []json.RawMessage{}
	}
	return json.Marshal(JSONRPCRequest{
		ID:      1,
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
	})
}

// WrapJSONRPC wraps encoded bundle params into an eth_sendBundle request body.
func WrapJSONRPC(bundleParams json.RawMessage) ([]byte, error) {
	return WrapJSONRPCMethod(MethodSendBundle, bundleParams)
}

// EncodeSendBundle encodes r into a complete eth_sendBundle request body.
func EncodeSendBundle(r BundleRequest) ([]byte, error) {
	params, err := EncodeBundleParams(r)
	if err != nil {
		return nil, err
	}
	return WrapJSONRPC(params)
}

// EncodeCancelBundle encodes an eth_cancelBundle request body.
func EncodeCancelBundle(replacementUUID string) ([]byte, error) {
	params, err := json.Marshal(CancelBundleParams{ReplacementUUID: replacementUUID})
	if err != nil {
		return nil, err
	}
	return WrapJSONRPCMethod(MethodCancelBundle, params)
}
