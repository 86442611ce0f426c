package handler

import (
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/wiimote"
)

// eventChunkSize bounds one drain per poll tick on the stream path.
const eventChunkSize = 512

// Events returns a stream handler that writes buffered event lines to the
// connection as they arrive, until the client hangs up.
func Events(d *wiimote.Driver, pollInterval time.Duration) api.StreamHandlerFunc {
	if pollInterval <= 0 {
		pollInterval = 25 * time.Millisecond
	}
	return func(conn net.Conn, logger *slog.Logger) error {
		// Clients never send data on an event stream; a read returning
		// means the peer closed the connection.
		closed := make(chan struct{})
		go func() {
			_, _ = io.Copy(io.Discard, conn)
			close(closed)
		}()

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				return nil
			case <-ticker.C:
			}

			for {
				chunk := d.Read(eventChunkSize)
				if len(chunk) == 0 {
					break
				}
				if _, err := conn.Write(chunk); err != nil {
					return nil
				}
			}
		}
	}
}
