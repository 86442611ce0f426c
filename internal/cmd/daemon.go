package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/seyoka/wiimoted/internal/configpaths"
	"github.com/seyoka/wiimoted/internal/hiddev"
	"github.com/seyoka/wiimoted/internal/log"
	"github.com/seyoka/wiimoted/internal/ringbuf"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/internal/server/api/auth"
	"github.com/seyoka/wiimoted/internal/server/api/handler"
	"github.com/seyoka/wiimoted/wiimote"
)

const keyFileName = "wiimoted.key.txt"

// Daemon runs the driver: HID watcher, event buffer, and management API.
type Daemon struct {
	Hid                hiddev.Config    `embed:"" prefix:"hid."`
	Api                api.ServerConfig `embed:"" prefix:"api."`
	BufferSize         int              `help:"Event buffer capacity in bytes" default:"1024" env:"WIIMOTED_BUFFER_SIZE"`
	StreamPollInterval time.Duration    `help:"Event stream poll interval" default:"25ms" env:"WIIMOTED_STREAM_POLL_INTERVAL"`
}

// Run is called by kong when the daemon command is executed.
func (d *Daemon) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Start(ctx, logger, rawLogger)
}

// Start wires the daemon together and blocks until ctx is cancelled.
func (d *Daemon) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("Starting wiimoted", "api", d.Api.Addr)

	if d.BufferSize < 2 {
		d.BufferSize = ringbuf.DefaultCapacity
	}
	driver := wiimote.New(d.BufferSize, logger, rawLogger)

	if d.Api.Auth && d.Api.Password == "" {
		pwd, err := d.loadOrGenerateKey(logger)
		if err != nil {
			return err
		}
		d.Api.Password = pwd
	}

	apiSrv, err := api.New(d.Api, logger)
	if err != nil {
		return err
	}
	r := apiSrv.Router()
	r.Register("ping", handler.Ping(Version))
	r.Register("status", handler.Status(driver))
	r.Register("battery/request", handler.BatteryRequest(driver))
	r.Register("read/{max}", handler.Read(driver))
	r.RegisterStream("events", handler.Events(driver, d.StreamPollInterval))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	watcher := hiddev.NewWatcher(d.Hid, driver, logger)
	if err := watcher.Run(ctx); err != nil {
		logger.Error("HID watcher failed", "error", err)
		return err
	}

	logger.Info("wiimoted stopped")
	return nil
}

// loadOrGenerateKey reads the API password from the key file beside the
// config, generating and persisting a fresh one on first run.
func (d *Daemon) loadOrGenerateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write API password file: %w", err)
	}
	logger.Info("Generated API password", "path", keyFilePath)
	return newPwd, nil
}
