package types

import (
	"encoding/json"
)

// JSONText is a request field that clients send either as a JSON-encoded string
// ("[{\"id\": 1}]") or as inline JSON ([{"id": 1}]). Both decode to the same text.
type JSONText string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *JSONText) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*t = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = JSONText(s)
		return nil
	}

	*t = JSONText(data)
	return nil
}

// String returns the text
func (t JSONText) String() string {
	return string(t)
}
