// Package chain talks JSON-RPC 2.0 to an ordered list of endpoints, first
// success wins.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const defaultTimeout = 10 * time.Second

// DefaultEndpoints are the public testnet endpoints tried when none are configured.
var DefaultEndpoints = []string{
	"https://rpc.sepolia.mantle.xyz",
	"https://aeneid.storyrpc.io",
}

// ErrNoEndpoints is returned when the client has nothing to call.
var ErrNoEndpoints = errors.New("no rpc endpoints configured")

// ErrAllFailed wraps the joined per-endpoint errors when every endpoint fails.
var ErrAllFailed = errors.New("all rpc endpoints failed")

// RPCError is an error object returned by an endpoint.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Client calls endpoints in order.
type Client struct {
	Endpoints  []string
	HTTPClient *http.Client

	nextID atomic.Uint64
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// NewClient returns a client for endpoints. An empty list falls back to
// DefaultEndpoints; timeout <= 0 uses a 10s default.
func NewClient(endpoints []string, timeout time.Duration) *Client {
	cleaned := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultEndpoints...)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		Endpoints:  cleaned,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Call invokes method on the first endpoint that answers without error and
// decodes the result into out. It returns the endpoint that served the call.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) (string, error) {
	if len(c.Endpoints) == 0 {
		return "", ErrNoEndpoints
	}
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode rpc request: %w", err)
	}

	errs := []error{ErrAllFailed}
	for _, endpoint := range c.Endpoints {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("rpc call canceled: %w", err)
		}
		result, err := c.post(ctx, endpoint, body)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", endpoint, err))
			continue
		}
		if out != nil {
			if err := json.Unmarshal(result, out); err != nil {
				errs = append(errs, fmt.Errorf("%s: failed to decode result: %w", endpoint, err))
				continue
			}
		}
		return endpoint, nil
	}
	return "", errors.Join(errs...)
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	if len(decoded.Result) == 0 {
		return nil, errors.New("response has no result")
	}
	return decoded.Result, nil
}

// Status is a snapshot of the serving endpoint.
type Status struct {
	Endpoint    string
	ChainID     uint64
	BlockNumber uint64
	Latency     time.Duration
}

// Status queries chain id and latest block number.
func (c *Client) Status(ctx context.Context) (Status, error) {
	start := time.Now()
	var chainID, block string
	endpoint, err := c.Call(ctx, "eth_chainId", nil, &chainID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to query chain id: %w", err)
	}
	// The block number comes from the same endpoint as the chain id.
	pinned := &Client{Endpoints: []string{endpoint}, HTTPClient: c.HTTPClient}
	if _, err := pinned.Call(ctx, "eth_blockNumber", nil, &block); err != nil {
		return Status{}, fmt.Errorf("failed to query block number: %w", err)
	}

	st := Status{Endpoint: endpoint, Latency: time.Since(start)}
	if st.ChainID, err = ParseQuantity(chainID); err != nil {
		return Status{}, fmt.Errorf("failed to parse chain id: %w", err)
	}
	if st.BlockNumber, err = ParseQuantity(block); err != nil {
		return Status{}, fmt.Errorf("failed to parse block number: %w", err)
	}
	return st, nil
}

// ParseQuantity decodes a 0x-prefixed hex quantity.
func ParseQuantity(s string) (uint64, error) {
	hex, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if !ok || hex == "" {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return strconv.ParseUint(hex, 16, 64)
}
