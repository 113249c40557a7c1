package evm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/blockpulse/internal/infra/rpc"
)

// mockCaller implements rpc.Caller for testing
type mockCaller struct {
	CallFunc func(ctx context.Context, method string, params []any) (any, error)
}

func (m *mockCaller) Call(ctx context.Context, method string, params []any) (any, error) {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, params)
	}
	return nil, nil
}

func TestReader_LatestBlockNumber(t *testing.T) {
	mock := &mockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != MethodBlockNumber {
				t.Errorf("unexpected method %s", method)
			}
			if len(params) != 0 {
				t.Errorf("expected no params, got %v", params)
			}
			return "0x12d687", nil // 1234567 in hex
		},
	}

	height, err := NewReader(mock).LatestBlockNumber(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if height != 1234567 {
		t.Errorf("expected height 1234567, got %d", height)
	}
}

func TestReader_LatestBlockNumber_Errors(t *testing.T) {
	t.Run("invalid hex", func(t *testing.T) {
		mock := &mockCaller{CallFunc: func(context.Context, string, []any) (any, error) {
			return "0xnothex", nil
		}}
		_, err := NewReader(mock).LatestBlockNumber(context.Background())
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected DecodeError, got %v", err)
		}
	})

	t.Run("non string", func(t *testing.T) {
		mock := &mockCaller{CallFunc: func(context.Context, string, []any) (any, error) {
			return float64(16), nil
		}}
		_, err := NewReader(mock).LatestBlockNumber(context.Background())
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected DecodeError, got %v", err)
		}
	})

	t.Run("transport", func(t *testing.T) {
		mock := &mockCaller{CallFunc: func(context.Context, string, []any) (any, error) {
			return nil, &rpc.TransportError{Method: MethodBlockNumber, StatusCode: 500}
		}}
		_, err := NewReader(mock).LatestBlockNumber(context.Background())
		var te *rpc.TransportError
		if !errors.As(err, &te) {
			t.Fatalf("expected wrapped TransportError, got %v", err)
		}
	})
}

func TestReader_BlockTimestamp(t *testing.T) {
	mock := &mockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != MethodGetBlockByNumber {
				t.Errorf("unexpected method %s", method)
			}
			if len(params) != 2 || params[0] != "0x12d687" || params[1] != false {
				t.Errorf("unexpected params: %v", params)
			}
			return map[string]any{
				"number":     "0x12d687",
				"hash":       "0xabc123",
				"parentHash": "0xabc122",
				"timestamp":  "0x65678900",
			}, nil
		},
	}

	ts, err := NewReader(mock).BlockTimestamp(context.Background(), 1234567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != 0x65678900 {
		t.Errorf("expected timestamp %d, got %d", 0x65678900, ts)
	}
}

func TestReader_BlockTimestamp_Missing(t *testing.T) {
	tests := []struct {
		name   string
		result any
		field  string
	}{
		{"null block", nil, "block"},
		{"no timestamp", map[string]any{"number": "0x1"}, "timestamp"},
		{"null timestamp", map[string]any{"timestamp": nil}, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCaller{CallFunc: func(context.Context, string, []any) (any, error) {
				return tt.result, nil
			}}
			_, err := NewReader(mock).BlockTimestamp(context.Background(), 7)

			var me *MissingFieldError
			if !errors.As(err, &me) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if me.Field != tt.field || me.Block != 7 {
				t.Errorf("unexpected error fields: %+v", me)
			}
		})
	}
}

func TestReader_BlockTimestamp_Malformed(t *testing.T) {
	mock := &mockCaller{CallFunc: func(context.Context, string, []any) (any, error) {
		return map[string]any{"timestamp": "yesterday"}, nil
	}}
	_, err := NewReader(mock).BlockTimestamp(context.Background(), 1)

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Field != "timestamp" {
		t.Errorf("expected timestamp field, got %s", de.Field)
	}
}

// Exercises the reader against the real HTTP provider and a mocked node.
func TestReader_OverHTTP_RoundTrip(t *testing.T) {
	numbers := []uint64{0, 1, 1<<53 - 1}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		// Echo the requested number back as the timestamp.
		tag := req.Params[0].(string)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]any{"number": tag, "timestamp": tag},
		})
	}))
	defer server.Close()

	reader := NewReader(rpc.NewHTTPProvider("mock", server.URL, 5*time.Second))

	for _, n := range numbers {
		ts, err := reader.BlockTimestamp(context.Background(), n)
		if err != nil {
			t.Fatalf("block %d: unexpected error: %v", n, err)
		}
		if ts != n {
			t.Errorf("block %d: round trip returned %d", n, ts)
		}
	}
}
