// Package hiddev connects the driver core to a real controller through the
// platform HID layer. It watches for the controller appearing and
// disappearing, feeds raw input reports into the producer path, and carries
// outbound control payloads.
package hiddev

import (
	"context"
	"log/slog"
	"time"

	hid "github.com/sstallion/go-hid"

	"github.com/seyoka/wiimoted/wiimote"
)

// Nintendo Wii Remote vendor/product IDs.
const (
	DefaultVendorID  = 0x057E
	DefaultProductID = 0x0306
)

// Config holds the HID watcher configuration.
type Config struct {
	VendorID     uint16        `help:"Controller vendor ID" default:"0x057E" env:"WIIMOTED_HID_VID"`
	ProductID    uint16        `help:"Controller product ID" default:"0x0306" env:"WIIMOTED_HID_PID"`
	PollInterval time.Duration `help:"Interval between enumeration scans while no controller is attached" default:"1s" env:"WIIMOTED_HID_POLL_INTERVAL"`
	ReadTimeout  time.Duration `help:"Blocking read timeout; bounds shutdown latency" default:"250ms" env:"WIIMOTED_HID_READ_TIMEOUT"`
}

// Watcher owns the controller lifecycle: enumerate, open, read until the
// device goes away, repeat.
type Watcher struct {
	cfg    Config
	driver *wiimote.Driver
	logger *slog.Logger
}

// NewWatcher creates a watcher delivering reports into driver.
func NewWatcher(cfg Config, driver *wiimote.Driver, logger *slog.Logger) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 250 * time.Millisecond
	}
	return &Watcher{cfg: cfg, driver: driver, logger: logger}
}

// Run blocks until ctx is cancelled, maintaining the controller connection.
// Each attach/detach is forwarded to the driver as a lifecycle notification.
func (w *Watcher) Run(ctx context.Context) error {
	if err := hid.Init(); err != nil {
		return err
	}
	defer hid.Exit()

	for {
		path, found := w.findController()
		if !found {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.cfg.PollInterval):
			}
			continue
		}

		dev, err := hid.OpenPath(path)
		if err != nil {
			w.logger.Warn("failed to open controller", "path", path, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.cfg.PollInterval):
			}
			continue
		}

		w.logger.Info("opened controller", "path", path,
			"vid", w.cfg.VendorID, "pid", w.cfg.ProductID)
		w.driver.OnConnect(&controlWriter{dev: dev})
		w.readLoop(ctx, dev)
		w.driver.OnDisconnect()
		_ = dev.Close()

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// findController returns the HID path of the first matching interface.
func (w *Watcher) findController() (string, bool) {
	var path string
	_ = hid.Enumerate(w.cfg.VendorID, w.cfg.ProductID, func(info *hid.DeviceInfo) error {
		if path == "" {
			path = info.Path
		}
		return nil
	})
	return path, path != ""
}

// readLoop delivers one raw report per read into the producer path until
// the device errors out (unplug) or ctx is cancelled. hidapi returns whole
// reports per read, which preserves the per-report atomicity the decoder
// relies on.
func (w *Watcher) readLoop(ctx context.Context, dev *hid.Device) {
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := dev.ReadWithTimeout(buf, w.cfg.ReadTimeout)
		if err != nil {
			w.logger.Warn("controller read failed, assuming unplugged", "error", err)
			return
		}
		if n == 0 {
			continue
		}
		w.driver.HandleReport(buf[:n])
	}
}

// controlWriter adapts an open HID device to the driver's Transport.
type controlWriter struct {
	dev *hid.Device
}

func (c *controlWriter) SendControl(p []byte) error {
	if _, err := c.dev.Write(p); err != nil {
		return err
	}
	return nil
}
