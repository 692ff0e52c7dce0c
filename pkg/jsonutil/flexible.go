package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling cases where
// LLMs return numbers or booleans instead of strings. Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FlexibleString is a string field that also accepts JSON numbers and booleans.
// Surrounding whitespace is trimmed.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	*f = FlexibleString(strings.TrimSpace(FlexibleStringValue(data)))
	return nil
}

func (f FlexibleString) String() string {
	return string(f)
}

// FlexibleBool accepts true/false, "true"/"false" (any case) and 1/0.
// Anything else decodes as false.
type FlexibleBool bool

func (f *FlexibleBool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(FlexibleStringValue(data)) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// FlexibleStringSlice accepts a JSON array of scalars or a single scalar.
// Empty entries are dropped.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if v := strings.TrimSpace(FlexibleStringValue(item)); v != "" {
				out = append(out, v)
			}
		}
		*f = out
		return nil
	}

	if v := strings.TrimSpace(FlexibleStringValue(data)); v != "" {
		*f = []string{v}
	} else {
		*f = nil
	}
	return nil
}
