package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/apiclient"
	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/internal/server/api/handler"
	handlerTest "github.com/seyoka/wiimoted/internal/testing"
	"github.com/seyoka/wiimoted/wiimote"
)

func TestRead(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("read/{max}", handler.Read(d))
	})
	defer done()

	driver.HandleReport([]byte{0x01, 0x11, 0x01})
	driver.HandleReport([]byte{0x20, 0x5A})

	line, err := apiclient.NewTransport(addr).Do("read/1024", nil, nil)
	require.NoError(t, err)

	var resp apitypes.ReadResponse
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "dpad_right plus A\nbattery: 90\n", resp.Data)
	assert.Equal(t, len(resp.Data), resp.N)

	// The drain consumed everything; a second read comes back empty.
	line, err = apiclient.NewTransport(addr).Do("read/1024", nil, nil)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.N)
}

func TestReadPartialDrain(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("read/{max}", handler.Read(d))
	})
	defer done()

	driver.HandleReport([]byte{0x30, 0x01, 0x00}) // "dpad_right\n"

	line, err := apiclient.NewTransport(addr).Do("read/4", nil, nil)
	require.NoError(t, err)
	var resp apitypes.ReadResponse
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "dpad", resp.Data)

	line, err = apiclient.NewTransport(addr).Do("read/64", nil, nil)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "_right\n", resp.Data)
}

func TestReadInvalidMax(t *testing.T) {
	addr, _, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("read/{max}", handler.Read(d))
	})
	defer done()

	for _, p := range []string{"read/zero", "read/0", "read/-5"} {
		_, err := apiclient.NewTransport(addr).Do(p, nil, nil)
		var apiErr *apitypes.ApiError
		require.ErrorAs(t, err, &apiErr, "path %s", p)
		assert.Equal(t, 400, apiErr.Status)
	}
}
