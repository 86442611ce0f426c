package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/wiimote"
)

// Status returns a handler exposing the driver snapshot: connection state
// and the last known battery level.
func Status(d *wiimote.Driver) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		snap := d.Snapshot()
		payload := apitypes.StatusResponse{Connected: snap.Connected}
		if snap.Battery != nil {
			level := int(*snap.Battery)
			payload.Battery = &level
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
