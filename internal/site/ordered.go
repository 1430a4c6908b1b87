package site

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeOrderedObject walks a JSON object and calls fn for each member in
// document order. dup is set when the key was already seen. Empty input and
// null are treated as an empty object.
func decodeOrderedObject(raw json.RawMessage, fn func(key string, val json.RawMessage, dup bool) error) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}

		if err := fn(key, val, seen[key]); err != nil {
			return err
		}
		seen[key] = true
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
