package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/seyoka/wiimoted/apiclient"
	"github.com/seyoka/wiimoted/internal/log"
)

// ClientConfig groups the connection flags shared by the client commands.
type ClientConfig struct {
	Addr        string `help:"Daemon API address" default:"127.0.0.1:3717" env:"WIIMOTED_ADDR"`
	Password    string `help:"API password" env:"WIIMOTED_PASSWORD"`
	AskPassword bool   `help:"Prompt for the API password on the terminal"`
}

func (c *ClientConfig) client() (*apiclient.Client, error) {
	pwd := c.Password
	if c.AskPassword {
		fmt.Fprint(os.Stderr, "password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		pwd = string(b)
	}
	if pwd != "" {
		return apiclient.NewWithPassword(c.Addr, pwd), nil
	}
	return apiclient.New(c.Addr), nil
}

// Status prints the controller connection and battery state as a short
// text report.
type Status struct {
	ClientConfig `embed:""`
}

func (s *Status) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	st, err := c.Status()
	if err != nil {
		return err
	}
	connected := "no"
	if st.Connected {
		connected = "yes"
	}
	battery := "unknown"
	if st.Battery != nil {
		battery = strconv.Itoa(*st.Battery)
	}
	fmt.Printf("connected: %s\nbattery: %s\n", connected, battery)
	return nil
}

// Battery asks the daemon to request a fresh battery reading. The reading
// itself shows up on the event stream and in subsequent status output.
type Battery struct {
	ClientConfig `embed:""`
}

func (b *Battery) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	c, err := b.client()
	if err != nil {
		return err
	}
	if _, err := c.RequestBattery(); err != nil {
		return err
	}
	fmt.Println("battery request sent")
	return nil
}

// Read drains buffered event lines once and prints them.
type Read struct {
	ClientConfig `embed:""`
	Max          int `help:"Maximum bytes to drain" default:"4096"`
}

func (r *Read) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	c, err := r.client()
	if err != nil {
		return err
	}
	resp, err := c.Read(r.Max)
	if err != nil {
		return err
	}
	fmt.Print(resp.Data)
	return nil
}

// Watch streams event lines until interrupted.
type Watch struct {
	ClientConfig `embed:""`
}

func (w *Watch) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	c, err := w.client()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Watch(ctx, func(line string) {
		fmt.Println(line)
	})
}
