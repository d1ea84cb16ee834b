package zkproof

import (
	"bytes"
	"encoding/json"
)

// CanonicalJSON serializes v with deterministic key ordering so the same
// logical record always hashes identically. The value is marshaled, re-read
// into generic maps (json.Number preserves integer literals exactly), and
// marshaled again: Go sorts map keys on encode, which yields the canonical
// form at every nesting level.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	return json.Marshal(tree)
}
