package api_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/apiclient"
	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/internal/server/api/handler"
)

func startServer(t *testing.T, cfg api.ServerConfig) *api.Server {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := api.New(cfg, logger)
	require.NoError(t, err)
	srv.Router().Register("ping", handler.Ping("test"))
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		srv.Close()
		time.Sleep(10 * time.Millisecond)
	})
	return srv
}

func TestPing(t *testing.T) {
	srv := startServer(t, api.ServerConfig{})

	resp, err := apiclient.New(srv.Addr()).Ping()
	require.NoError(t, err)
	assert.Equal(t, "wiimoted", resp.Server)
	assert.Equal(t, "test", resp.Version)
}

func TestUnknownPath(t *testing.T) {
	srv := startServer(t, api.ServerConfig{})

	_, err := apiclient.NewTransport(srv.Addr()).Do("nope", nil, nil)
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestAuthRoundTrip(t *testing.T) {
	srv := startServer(t, api.ServerConfig{Auth: true, Password: "hunter2"})

	resp, err := apiclient.NewWithPassword(srv.Addr(), "hunter2").Ping()
	require.NoError(t, err)
	assert.Equal(t, "wiimoted", resp.Server)
}

func TestAuthRejectsPlainClient(t *testing.T) {
	srv := startServer(t, api.ServerConfig{Auth: true, Password: "hunter2"})

	_, err := apiclient.New(srv.Addr()).Ping()
	assert.Error(t, err)
}

func TestAuthRejectsWrongPassword(t *testing.T) {
	srv := startServer(t, api.ServerConfig{Auth: true, Password: "hunter2"})

	_, err := apiclient.NewWithPassword(srv.Addr(), "wrong").Ping()
	assert.Error(t, err)
}
