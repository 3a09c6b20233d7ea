// Package fingerprint derives deterministic cache keys from GraphQL requests.
//
// Two requests with identical query text and variables must map to the same
// key regardless of JSON object field order, so objects are serialized with
// sorted keys before hashing. The digest is SHA-256, hex-encoded.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/c360/merchproxy/errors"
)

// Request computes the fingerprint of a GraphQL request from its query text
// and decoded variables. A nil variables map and an empty one produce the
// same key.
func Request(query string, variables map[string]any) (string, error) {
	payload := map[string]any{
		"query": query,
	}
	if len(variables) > 0 {
		payload["variables"] = variables
	}

	canonical, err := Canonical(payload)
	if err != nil {
		return "", errors.WrapInternal(err, "fingerprint", "Request", "canonical serialization")
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Canonical serializes a decoded JSON value with object keys sorted at every
// nesting level, producing a byte-stable representation of semantically
// identical documents.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case json.RawMessage:
		// Decode so nested objects get sorted too
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return fmt.Errorf("invalid raw JSON: %w", err)
		}
		return writeCanonical(buf, decoded)

	default:
		// Scalars (string, float64, bool, nil) have a single JSON form
		encoded, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}
}
