package display

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON marshals v as indented JSON without HTML escaping, so paths and
// hints containing <, > or & print as written.
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
