// Package testing provides helpers for exercising the management API in
// tests.
package testing

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/seyoka/wiimoted/internal/log"
	"github.com/seyoka/wiimoted/internal/ringbuf"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/wiimote"
)

// NewTestDriver creates a driver with a quiet logger for tests.
func NewTestDriver(t *testing.T) *wiimote.Driver {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return wiimote.New(ringbuf.DefaultCapacity, logger, log.NewRaw(nil))
}

// StartAPIServer starts an API server on a free port and calls register so
// the caller can hook up the handlers needed for the test. Returns the
// address, a fresh driver, and a cleanup function.
func StartAPIServer(t *testing.T, register func(r *api.Router, d *wiimote.Driver)) (addr string, driver *wiimote.Driver, done func()) {
	t.Helper()
	driver = NewTestDriver(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := api.New(api.ServerConfig{Addr: "127.0.0.1:0"}, logger)
	if err != nil {
		t.Fatalf("api new failed: %v", err)
	}
	if register != nil {
		register(srv.Router(), driver)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}

	done = func() {
		srv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return srv.Addr(), driver, done
}

// FreeAddr reserves and releases an ephemeral port, returning its address.
func FreeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}
