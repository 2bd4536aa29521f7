package codec

import "encoding/json"

// JSON is the standard-library JSON codec. Its output is byte-for-byte
// identical to GoJSON for the records vecstream emits; it exists for callers
// that want to avoid the faster encoder.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
