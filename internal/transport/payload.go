package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"material-api/internal/response"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("Invalid request body")

// request is a decoded material payload together with the calling
// convention it arrived in
type request struct {
	payload map[string]any
	rpc     bool
	rpcID   any
}

// decodeRequest reads a JSON object body. Numbers are kept as json.Number so
// integers and floats stay distinguishable. A body carrying a "jsonrpc" key
// is unwrapped and its params become the payload.
func decodeRequest(r *http.Request) (request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return request{}, errInvalidBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return request{payload: map[string]any{}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return request{}, errInvalidBody
	}
	// Exactly one JSON value per body
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return request{}, errInvalidBody
	}

	if _, ok := raw["jsonrpc"]; !ok {
		if raw == nil {
			raw = map[string]any{}
		}
		return request{payload: raw}, nil
	}

	req := request{payload: map[string]any{}, rpc: true, rpcID: raw["id"]}
	if raw["params"] != nil {
		params, ok := raw["params"].(map[string]any)
		if !ok {
			return req, errInvalidBody
		}
		req.payload = params
	}
	return req, nil
}

// reply writes env in the shape the client asked for
func (req request) reply(w http.ResponseWriter, env response.Envelope) {
	if req.rpc {
		response.WriteRPC(w, req.rpcID, env)
		return
	}
	response.Write(w, env)
}
