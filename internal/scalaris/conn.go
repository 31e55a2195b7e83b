// Package scalaris is a JSON-RPC client for a Scalaris node. It only speaks
// the wire protocol of the tx, rdht and pubsub APIs; the store itself is an
// external service.
package scalaris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// API paths relative to the node's base URL.
const (
	PathTx     = "/api/tx.yaws"
	PathRDHT   = "/api/rdht.yaws"
	PathPubSub = "/api/pubsub.yaws"
)

// DefaultURL is used when no URL is configured.
const DefaultURL = "http://localhost:8000"

// Config configures a connection
type Config struct {
	URL     string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Conn is a connection to one Scalaris node. It is safe for concurrent use;
// after Close every call fails with ErrNotConnected.
type Conn struct {
	base   string
	client *http.Client
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	nextID atomic.Uint64
}

// Dial validates cfg and returns a connection. No request is sent.
func Dial(cfg Config) (*Conn, error) {
	raw := cfg.URL
	if raw == "" {
		raw = DefaultURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse scalaris url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("scalaris url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("scalaris url %q: missing host", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Conn{
		base:   strings.TrimRight(u.String(), "/"),
		client: &http.Client{Timeout: timeout},
		logger: cfg.Logger,
	}, nil
}

// URL returns the base URL of the node.
func (c *Conn) URL() string { return c.base }

// Close marks the connection closed and releases idle sockets.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

func (c *Conn) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	ID     uint64          `json:"id"`
}

// call posts one JSON-RPC request to path and decodes the result into out.
func (c *Conn) call(ctx context.Context, path, method string, params []any, out any) error {
	if c.isClosed() {
		return ErrNotConnected
	}

	id := c.nextID.Add(1)
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: id})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrConnection, path, method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read reply: %v", ErrConnection, err)
	}
	c.logger.Debug().
		Str("path", path).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("scalaris call")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s: http status %d", ErrConnection, path, method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(data, &rpc); err != nil {
		return fmt.Errorf("%w: decode %s reply: %v", ErrUnknown, method, err)
	}
	if rpc.Error != nil {
		return fmt.Errorf("%w: %s: rpc error %d: %s", ErrUnknown, method, rpc.Error.Code, rpc.Error.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpc.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", ErrUnknown, method, err)
	}
	return nil
}

// Nop sends a no-op through the tx API. It is used as a reachability probe.
func (c *Conn) Nop(ctx context.Context) error {
	var result string
	if err := c.call(ctx, PathTx, "nop", []any{"ok"}, &result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("%w: nop returned %q", ErrUnknown, result)
	}
	return nil
}
