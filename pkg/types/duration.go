// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration with JSON encoding as a duration string
// ("1s", "500ms"). Decoding also accepts a bare number, interpreted as
// seconds, so hand-written configs can use plain numbers.
type Duration struct {
	time.Duration
}

// Seconds returns the duration as fractional seconds.
func (d Duration) Seconds() float64 {
	return d.Duration.Seconds()
}

// MarshalJSON encodes the duration as a string ("1s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// UnmarshalJSON decodes either a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(val * float64(time.Second))
	default:
		return fmt.Errorf("invalid duration value %v", v)
	}
	return nil
}
