package handler_test

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/internal/server/api/handler"
	handlerTest "github.com/seyoka/wiimoted/internal/testing"
	"github.com/seyoka/wiimoted/wiimote"
)

func TestEventsStream(t *testing.T) {
	addr, driver, done := handlerTest.StartAPIServer(t, func(r *api.Router, d *wiimote.Driver) {
		r.RegisterStream("events", handler.Events(d, 5*time.Millisecond))
	})
	defer done()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("events\x00"))
	require.NoError(t, err)

	driver.HandleReport([]byte{0x01, 0x11, 0x01})
	driver.HandleReport([]byte{0x20, 0x5A})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(conn)
	line1, err := r.ReadString('\n')
	require.NoError(t, err)
	line2, err := r.ReadString('\n')
	require.NoError(t, err)

	assert.Equal(t, "dpad_right plus A\n", line1)
	assert.Equal(t, "battery: 90\n", line2)
}
