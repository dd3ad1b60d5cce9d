package ledger

import (
	"bytes"
	"encoding/json"
)

// payloadsEqual compares payloads semantically: both sides are decoded and
// re-encoded so key order and whitespace do not matter, and the volatile
// validity-scope fields (run id, creation time) are masked. Two runs of
// the same computation differ only in those fields, and must compare
// equal for re-emission to settle idempotently.
func payloadsEqual(a, b []byte) bool {
	ca, okA := canonicalPayload(a)
	cb, okB := canonicalPayload(b)
	if !okA || !okB {
		// Not JSON on at least one side; fall back to byte equality.
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca, cb)
}

func canonicalPayload(raw []byte) ([]byte, bool) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false
	}
	maskVolatile(decoded)
	out, err := json.Marshal(decoded)
	if err != nil {
		return nil, false
	}
	return out, true
}

func maskVolatile(decoded any) {
	top, ok := decoded.(map[string]any)
	if !ok {
		return
	}
	assumptions, ok := top["assumptions"].(map[string]any)
	if !ok {
		return
	}
	scope, ok := assumptions["validity_scope"].(map[string]any)
	if !ok {
		return
	}
	delete(scope, "run_id")
	delete(scope, "created_at")
}
