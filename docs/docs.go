// Package docs embeds the API description served under /api-docs.
//
// swagger.json is the hand-maintained OpenAPI document; README.md is the
// free-text overview that replaces its info.description when Build runs.
package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed swagger.json
var definition []byte

//go:embed README.md
var overview string

// Build returns the OpenAPI document with the overview merged into
// info.description, encoded as JSON.
func Build() ([]byte, error) {
	return Merge(definition, overview)
}

// Merge sets info.description of the OpenAPI document def to description.
func Merge(def []byte, description string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(def, &doc); err != nil {
		return nil, fmt.Errorf("parse api definition: %w", err)
	}

	info, ok := doc["info"].(map[string]any)
	if !ok {
		info = map[string]any{}
		doc["info"] = info
	}
	info["description"] = description

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode api definition: %w", err)
	}
	return out, nil
}
