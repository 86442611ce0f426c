// Package handler contains the management API route handlers.
package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
)

// Ping returns a handler identifying the server.
func Ping(version string) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		b, err := json.Marshal(apitypes.PingResponse{Server: "wiimoted", Version: version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
