package provider

import (
	"fmt"
)

// TransportError is an HTTP-level failure: the request never produced a usable response.
type TransportError struct {
	Method     string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %s", e.Method, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: transport: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means the node answered but not with a usable JSON-RPC result.
type ProtocolError struct {
	Method  string
	Code    int // JSON-RPC error code, 0 if the envelope was malformed
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: rpc error %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
