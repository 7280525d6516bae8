package aggregator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	ErrRPCFailed         = errors.New("RPC operation failed")
	ErrMarshalFailed     = errors.New("marshaling operation failed")
	ErrMalformedResponse = errors.New("malformed RPC response")
	ErrInvalidTask       = errors.New("invalid signed task")
)

const (
	JSONRPCVersion = "2.0"
	MethodSendTask = "sendTask"
	// Each submission is its own request, so the id is constant.
	DefaultRequestID = 1
)

// AggregatorClientConfig holds the configuration for AggregatorClient
type AggregatorClientConfig struct {
	AggregatorRPCUrl string
	RequestTimeout   time.Duration
}

type jsonRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
	ID      json.RawMessage `json:"id"`
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type ResponseKind int

const (
	ResponseMalformed ResponseKind = iota
	ResponseSuccess
	ResponseProtocolError
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseSuccess:
		return "success"
	case ResponseProtocolError:
		return "protocol_error"
	default:
		return "malformed"
	}
}

// RPCResponse is a decoded JSON-RPC response. Result is set only for
// ResponseSuccess and Error only for ResponseProtocolError.
type RPCResponse struct {
	Kind   ResponseKind
	Result json.RawMessage
	Error  *RPCError
}

// Err maps the response onto the package errors. Success yields nil.
func (r RPCResponse) Err() error {
	switch r.Kind {
	case ResponseSuccess:
		return nil
	case ResponseProtocolError:
		return fmt.Errorf("%w: %w", ErrRPCFailed, r.Error)
	default:
		return fmt.Errorf("%w: %w", ErrRPCFailed, ErrMalformedResponse)
	}
}

// DecodeResponse classifies a raw response body. A non-null result wins over
// an error object; a body with neither, or that is not JSON, is malformed.
func DecodeResponse(body []byte) RPCResponse {
	var raw jsonRPCResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return RPCResponse{Kind: ResponseMalformed}
	}

	if !isNull(raw.Result) {
		return RPCResponse{Kind: ResponseSuccess, Result: raw.Result}
	}

	if !isNull(raw.Error) {
		var rpcErr RPCError
		if err := json.Unmarshal(raw.Error, &rpcErr); err != nil {
			return RPCResponse{Kind: ResponseMalformed}
		}
		return RPCResponse{Kind: ResponseProtocolError, Error: &rpcErr}
	}

	return RPCResponse{Kind: ResponseMalformed}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// SubmissionResult is the aggregator's confirmation of a sendTask call.
type SubmissionResult struct {
	Result     json.RawMessage
	StatusCode int
	Duration   time.Duration
}
