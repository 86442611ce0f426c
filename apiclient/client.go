package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/seyoka/wiimoted/apitypes"
)

// Client provides a high-level interface to the wiimoted management API.
type Client struct{ transport *Transport }

// New constructs a client for the TCP address (host:port) of a daemon.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given
// password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// WithTransport constructs a Client using a custom Transport. Primarily
// useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the identity and version of the daemon.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// Status returns the controller connection state and last battery reading.
func (c *Client) Status() (*apitypes.StatusResponse, error) {
	return c.StatusCtx(context.Background())
}

func (c *Client) StatusCtx(ctx context.Context) (*apitypes.StatusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "status", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.StatusResponse](raw)
}

// RequestBattery asks the daemon to send a status command to the
// controller. The reading arrives asynchronously on the event stream.
func (c *Client) RequestBattery() (*apitypes.BatteryRequestResponse, error) {
	return c.RequestBatteryCtx(context.Background())
}

func (c *Client) RequestBatteryCtx(ctx context.Context) (*apitypes.BatteryRequestResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "battery/request", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BatteryRequestResponse](raw)
}

// Read drains up to max bytes of buffered event lines from the daemon.
func (c *Client) Read(max int) (*apitypes.ReadResponse, error) {
	return c.ReadCtx(context.Background(), max)
}

func (c *Client) ReadCtx(ctx context.Context, max int) (*apitypes.ReadResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "read/{max}", nil, map[string]string{"max": strconv.Itoa(max)})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ReadResponse](raw)
}

// Watch opens the event stream and calls fn for every event line until ctx
// is cancelled or the stream ends.
func (c *Client) Watch(ctx context.Context, fn func(line string)) error {
	conn, err := c.transport.DialStream(ctx, "events", nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		fn(sc.Text())
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

func parse[T any](raw string) (*T, error) {
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse response %q: %w", raw, err)
	}
	return &out, nil
}
