package response

import (
	"encoding/json"
	"net/http"
)

const jsonRPCVersion = "2.0"

// RPCRequest is the JSON-RPC calling convention some clients use for
// create/update. The material payload lives in Params.
type RPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method,omitempty"`
	Params  map[string]any `json:"params"`
}

// RPCResponse wraps an envelope as a JSON-RPC result
type RPCResponse struct {
	JSONRPC string   `json:"jsonrpc"`
	ID      any      `json:"id"`
	Result  Envelope `json:"result"`
}

// WriteRPC sends the envelope as a JSON-RPC result. The transport reports
// success at the HTTP level; callers read status_code from the envelope.
func WriteRPC(w http.ResponseWriter, id any, env Envelope) {
	if _, err := json.Marshal(env); err != nil {
		_, env = encode(env)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(RPCResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Result:  env,
	})
}
