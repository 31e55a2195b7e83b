package scalaris

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// encodedValue is the wire form of a stored value.
type encodedValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// encodeValue wraps v for transport. Byte slices travel base64 encoded as
// "as_bin", everything else as JSON "as_is".
func encodeValue(v any) (encodedValue, error) {
	if b, ok := v.([]byte); ok {
		raw, err := json.Marshal(base64.StdEncoding.EncodeToString(b))
		if err != nil {
			return encodedValue{}, err
		}
		return encodedValue{Type: "as_bin", Value: raw}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return encodedValue{}, fmt.Errorf("encode value: %w", err)
	}
	return encodedValue{Type: "as_is", Value: raw}, nil
}

func decodeValue(ev encodedValue) (any, error) {
	switch ev.Type {
	case "as_is":
		var v any
		if err := json.Unmarshal(ev.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
		}
		return v, nil
	case "as_bin":
		var s string
		if err := json.Unmarshal(ev.Value, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: value type %q", ErrUnknown, ev.Type)
	}
}

// normalize round-trips v through JSON so values written by a test compare
// equal to values read back (e.g. []string becomes []any).
func normalize(v any) any {
	if _, ok := v.([]byte); ok {
		return v
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// Normalize exposes normalize for callers comparing expected values.
func Normalize(v any) any { return normalize(v) }

// statusReply is the common {"status": ..., "reason": ..., "value": ...} shape.
type statusReply struct {
	Status string        `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Value  *encodedValue `json:"value,omitempty"`
	Keys   []string      `json:"keys,omitempty"`
}

func (r statusReply) err() error {
	switch r.Status {
	case "ok":
		return nil
	case "fail":
		return statusError(r.Reason)
	default:
		return fmt.Errorf("%w: status %q", ErrUnknown, r.Status)
	}
}
