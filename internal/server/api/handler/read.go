package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/seyoka/wiimoted/apitypes"
	"github.com/seyoka/wiimoted/internal/server/api"
	"github.com/seyoka/wiimoted/wiimote"
)

// Read returns a handler draining up to {max} bytes of buffered event
// lines. An empty drain is a success, not an error.
func Read(d *wiimote.Driver) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		maxStr, ok := req.Params["max"]
		if !ok {
			return api.ErrBadRequest("missing max parameter")
		}
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return api.ErrBadRequest(fmt.Sprintf("invalid max: %q", maxStr))
		}

		data := d.Read(max)
		b, err := json.Marshal(apitypes.ReadResponse{Data: string(data), N: len(data)})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
