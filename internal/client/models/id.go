// Package models holds the client-side domain types decoded from backend
// JSON. Loosely typed or optional wire fields are resolved once, at decode
// time, so the rest of the client works with plain values.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier that the backend may send as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id: not an integer: %s", n)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// firstID returns the first non-empty id.
func firstID(ids ...*ID) ID {
	for _, id := range ids {
		if id != nil && *id != "" {
			return *id
		}
	}
	return ""
}

// displayName resolves a nullable name, falling back to the username.
func displayName(name *string, username string) string {
	if name != nil && *name != "" {
		return *name
	}
	return username
}
