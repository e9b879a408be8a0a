// Package utils holds small parsing helpers shared by the data-provider
// clients.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common defects in provider payloads before
// decoding: single quotes, unquoted keys, trailing commas, unclosed
// arrays/objects, NaN/Infinity literals leaking from upstream serializers.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses an Hjson document (comments, unquoted keys, optional
// commas) and returns it re-encoded as standard JSON.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("hjson parse error: %v", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("json marshal error: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse decodes a payload into schema, trying progressively more
// lenient strategies: standard JSON, then repaired JSON, then Hjson.
// Market-data endpoints occasionally serve slightly malformed documents
// (unquoted NaN, truncated arrays) that the strict decoder rejects.
func SmartParse(input string, schema interface{}) error {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}

	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), schema); err == nil {
			return nil
		}
	}

	return fmt.Errorf("all parsing strategies failed for payload")
}
