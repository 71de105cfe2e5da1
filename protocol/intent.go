package protocol

import "encoding/json"

// Intent types
const (
	IntentGenerate = "RequestGenerate"
	IntentPromote  = "RequestPromote"
)

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RequestGenerate starts a run. A zero seed lets the server pick one.
type RequestGenerate struct {
	Seed  int64 `json:"seed"`
	Cells int   `json:"cells,omitempty"`
}

// RequestPromote promotes an extra room of the last finished run
type RequestPromote struct {
	RunID string `json:"runId"`
	Index int    `json:"index"`
}
