// Package wiimote holds the driver core: it turns raw controller reports
// into buffered event lines, tracks connection and battery state, and issues
// status requests toward the controller.
package wiimote

import (
	"context"
	"log/slog"
	"sync"

	"github.com/seyoka/wiimoted/internal/log"
	"github.com/seyoka/wiimoted/internal/ringbuf"
	"github.com/seyoka/wiimoted/wiimote/report"
)

// Transport is the outbound half of the controller link. SendControl
// delivers a single control payload to the device.
type Transport interface {
	SendControl(p []byte) error
}

// State is a point-in-time snapshot of the controller. Battery is nil until
// the first status report arrives and is retained across reconnects.
type State struct {
	Connected bool
	Battery   *uint8
}

// Driver decouples the report producer (the transport's read loop) from
// pull-based consumers. All methods are safe for concurrent use; no method
// blocks beyond a bounded byte copy.
type Driver struct {
	logger *slog.Logger
	raw    log.RawLogger
	ring   *ringbuf.Buffer

	mu        sync.Mutex
	transport Transport
	connected bool
	battery   *uint8
}

// New creates a driver buffering up to capacity-1 bytes of event lines.
func New(capacity int, logger *slog.Logger, raw log.RawLogger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Driver{
		logger: logger,
		raw:    raw,
		ring:   ringbuf.New(capacity),
	}
}

// HandleReport is the producer path, called once per incoming raw report.
// The transport must not interleave bytes of two reports within one call.
// Malformed reports and buffer overflow are logged and swallowed; nothing
// on this path is fatal.
func (d *Driver) HandleReport(raw []byte) {
	d.raw.Log(true, raw)

	dec := report.Decode(raw)
	switch dec.Kind {
	case report.KindIgnored:
		d.logger.Debug("dropping malformed report", "len", len(raw))
		return
	case report.KindBattery:
		level := dec.Battery.Level
		d.mu.Lock()
		d.battery = &level
		d.mu.Unlock()
		d.logger.Log(context.Background(), log.LevelTrace, "battery report", "level", level)
	case report.KindButtons:
		d.logger.Log(context.Background(), log.LevelTrace, "button report", "tag", dec.Buttons.Tag)
	}

	line := report.Format(dec)
	if n := d.ring.Offer(line); n < len(line) {
		d.logger.Warn("event buffer full", "accepted", n, "dropped", len(line)-n)
	}
}

// Read drains up to max buffered bytes. An empty buffer yields an empty
// result; Read never waits for data.
func (d *Driver) Read(max int) []byte {
	return d.ring.Drain(max)
}

// Buffered reports the number of bytes waiting to be read.
func (d *Driver) Buffered() int {
	return d.ring.Len()
}

// RequestStatus sends the status command to the controller. The reply is
// not awaited here; it arrives later through HandleReport as a status
// report. Returns ErrDeviceUnavailable when no controller is attached, or a
// *TransportError when the send fails. Only one outstanding request is
// meaningfully supported: replies carry no correlation beyond the report
// tag.
func (d *Driver) RequestStatus() error {
	d.mu.Lock()
	t := d.transport
	d.mu.Unlock()
	if t == nil {
		return ErrDeviceUnavailable
	}
	cmd := report.StatusRequest
	if err := t.SendControl(cmd[:]); err != nil {
		return &TransportError{Op: "status request", Err: err}
	}
	d.raw.Log(false, cmd[:])
	return nil
}

// OnConnect attaches a transport and marks the controller connected.
func (d *Driver) OnConnect(t Transport) {
	d.mu.Lock()
	d.transport = t
	d.connected = true
	d.mu.Unlock()
	d.logger.Info("controller connected")
}

// OnDisconnect detaches the transport and marks the controller gone. The
// last battery reading is retained for the next snapshot.
func (d *Driver) OnDisconnect() {
	d.mu.Lock()
	d.transport = nil
	d.connected = false
	d.mu.Unlock()
	d.logger.Info("controller disconnected")
}

// Snapshot returns the connection and battery state as a consistent pair.
func (d *Driver) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := State{Connected: d.connected}
	if d.battery != nil {
		level := *d.battery
		s.Battery = &level
	}
	return s
}
