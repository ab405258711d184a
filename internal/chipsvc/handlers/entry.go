package handlers

import (
	"bytes"
	"encoding/json"
)

// entry is a user typed number. Clients may send it as a JSON string or a
// JSON number; both keep their exact text for the ledger parsers.
type entry string

func (e *entry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*e = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = entry(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*e = entry(n.String())
	return nil
}
