// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package loaders

import (
	"encoding/json"
	"fmt"
)

// zeroTime is how an unset time.Time encodes.
const zeroTime = "0001-01-01T00:00:00Z"

// Serialize turns loader props into plain JSON-compatible data. Values are
// round-tripped through encoding/json, so times become RFC 3339 strings;
// nulls and unset times are then removed at every depth. The result is
// what templates and the /_props endpoint receive.
func Serialize(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize props: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("serialize props: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	strip(out)
	return out, nil
}

// strip removes absent values in place and returns the cleaned value.
func strip(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			if absent(val) {
				delete(x, k)
				continue
			}
			x[k] = strip(val)
		}
	case []any:
		kept := x[:0]
		for _, val := range x {
			if absent(val) {
				continue
			}
			kept = append(kept, strip(val))
		}
		return kept
	}
	return v
}

func absent(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == zeroTime
}
