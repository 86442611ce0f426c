package handler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/apiclient"
	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/internal/server/api/handler"
	handlerTest "github.com/seyoka/wiimoted/internal/testing"
	"github.com/seyoka/wiimoted/wiimote"
	"github.com/seyoka/wiimoted/wiimote/report"
)

type recordingTransport struct {
	sent [][]byte
	err  error
}

func (r *recordingTransport) SendControl(p []byte) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, append([]byte(nil), p...))
	return nil
}

func TestBatteryRequest(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("battery/request", handler.BatteryRequest(d))
	})
	defer done()

	rt := &recordingTransport{}
	driver.OnConnect(rt)

	line, err := apiclient.NewTransport(addr).Do("battery/request", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"requested":true}`, line)
	require.Len(t, rt.sent, 1)
	assert.Equal(t, report.StatusRequest[:], rt.sent[0])
}

func TestBatteryRequestNoDevice(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("battery/request", handler.BatteryRequest(d))
	})
	defer done()

	_, err := apiclient.NewTransport(addr).Do("battery/request", nil, nil)
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.Status)

	// The failed request must not touch the event buffer.
	assert.Equal(t, 0, driver.Buffered())
}

func TestBatteryRequestTransportFailure(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.Register("battery/request", handler.BatteryRequest(d))
	})
	defer done()

	driver.OnConnect(&recordingTransport{err: errors.New("link down")})

	_, err := apiclient.NewTransport(addr).Do("battery/request", nil, nil)
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Status)
}
