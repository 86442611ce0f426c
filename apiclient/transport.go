// Package apiclient provides a client for the wiimoted management API,
// handling request framing, authentication, response parsing, and error
// handling.
package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api/auth"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Password     string
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Transport is the low-level management protocol implementation. Request
// framing: `<path>[ SP <payload>]\x00` — only the null byte ends a request,
// so payloads may contain newlines. Response framing: the server writes a
// single JSON (or empty success) line terminated by `\n` and closes the
// connection; we read until EOF and trim one trailing newline.
type Transport struct {
	addr string
	mock func(path string, payload any, pathParams map[string]string) (string, error)
	cfg  Config
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithPassword creates a transport that authenticates with the
// given password.
func NewTransportWithPassword(addr, password string) *Transport {
	cfg := defaultConfig()
	cfg.Password = password
	return NewTransportWithConfig(addr, &cfg)
}

// NewTransportWithConfig creates a transport with custom timeouts.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport creates a transport returning canned responses without
// real networking; useful in tests.
func NewMockTransport(responder func(path string, payload any, pathParams map[string]string) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do sends a request and returns the single-line response without the
// trailing newline. Payload handling:
//
//	[]byte -> sent as-is
//	string -> UTF-8 bytes
//	struct/other -> JSON marshaled
//	nil -> no payload appended
func (t *Transport) Do(path string, payload any, pathParams map[string]string) (string, error) {
	return t.DoCtx(context.Background(), path, payload, pathParams)
}

// DoCtx is like Do but honors the provided context and configured timeouts.
func (t *Transport) DoCtx(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload, pathParams)
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	fullPath := fillPath(path, pathParams)
	var lineBytes []byte
	if pb, ok := toPayloadBytes(payload); ok && len(pb) > 0 {
		lineBytes = append([]byte(fullPath+" "), pb...)
	} else {
		lineBytes = []byte(fullPath)
	}
	lineBytes = append(lineBytes, '\x00')

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(lineBytes); err != nil {
		return "", fmt.Errorf("write request: %w", err)
	}

	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	line := strings.TrimSuffix(string(raw), "\n")

	if apiErr := parseAPIError(line); apiErr != nil {
		return "", apiErr
	}
	return line, nil
}

// DialStream opens a long-lived connection for a streaming path and hands
// back the connection after writing the request. The caller owns the
// connection.
func (t *Transport) DialStream(ctx context.Context, path string, pathParams map[string]string) (net.Conn, error) {
	conn, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	fullPath := fillPath(path, pathParams)
	if _, err := conn.Write(append([]byte(fullPath), '\x00')); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write request: %w", err)
	}
	return conn, nil
}

func (t *Transport) dial(ctx context.Context) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	if t.cfg.Password != "" {
		key, err := auth.DeriveKey(t.cfg.Password)
		if err != nil {
			conn.Close()
			return nil, err
		}
		r := bufio.NewReader(conn)
		sessionKey, err := auth.ClientHandshake(r, conn, key)
		if err != nil {
			conn.Close()
			return nil, err
		}
		wrapped, err := auth.WrapClientConn(conn, sessionKey)
		if err != nil {
			conn.Close()
			return nil, err
		}
		conn = wrapped
	}
	return conn, nil
}

// fillPath substitutes {name} placeholders with values from params.
func fillPath(path string, params map[string]string) string {
	out := path
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

func toPayloadBytes(payload any) ([]byte, bool) {
	switch p := payload.(type) {
	case nil:
		return nil, false
	case []byte:
		return p, true
	case string:
		return []byte(p), true
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, false
		}
		return b, true
	}
}

// parseAPIError returns the decoded ApiError if the line is a problem+json
// error response, nil otherwise.
func parseAPIError(line string) *apitypes.ApiError {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var apiErr apitypes.ApiError
	if err := json.Unmarshal([]byte(trimmed), &apiErr); err != nil {
		return nil
	}
	if apiErr.Status >= 400 && apiErr.Title != "" {
		return &apiErr
	}
	return nil
}
