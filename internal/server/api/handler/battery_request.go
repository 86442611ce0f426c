package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/wiimote"
)

// BatteryRequest returns a handler that asks the controller for a status
// report. The battery reading arrives later through the event stream; this
// handler only acknowledges that the request was sent.
func BatteryRequest(d *wiimote.Driver) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := d.RequestStatus(); err != nil {
			if errors.Is(err, wiimote.ErrDeviceUnavailable) {
				return api.ErrUnavailable("no controller attached")
			}
			var te *wiimote.TransportError
			if errors.As(err, &te) {
				return api.ErrBadGateway(te.Error())
			}
			return err
		}
		b, err := json.Marshal(apitypes.BatteryRequestResponse{Requested: true})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
