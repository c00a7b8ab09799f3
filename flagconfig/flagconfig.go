// Package flagconfig defines the configuration document delivered through
// AWS AppConfig. Every deployment publishes a new hosted version of this
// document; the demo app refreshes its in-memory copy from the agent sidecar.
package flagconfig

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
)

// Document is the flag document shape. All keys are optional on the wire;
// missing keys keep their previous value when merged.
type Document struct {
	FeatureXEnabled bool   `json:"featureXEnabled"`
	APIURL          string `json:"apiUrl,omitempty"`
	MaxUsers        int    `json:"maxUsers,omitempty"`
	DebugMode       bool   `json:"debugMode,omitempty"`
}

// Default is the document seeded as the first hosted configuration version.
func Default() Document {
	return Document{
		FeatureXEnabled: false,
		APIURL:          "https://api.example.com",
		MaxUsers:        100,
		DebugMode:       false,
	}
}

// Parse decodes a JSON payload into a Document. Non-object payloads are rejected.
func Parse(data []byte) (Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("flag document is not a JSON object: %w", err)
	}
	// json.Unmarshal leaves the map nil for the literal "null".
	if probe == nil {
		return Document{}, fmt.Errorf("flag document is not a JSON object: got null")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding flag document: %w", err)
	}
	return doc, nil
}

// Merge overlays update onto base. Zero values in update do not clear
// fields already set in base, so a partial document only touches the keys
// it carries. Booleans are the exception: they are always taken from
// update since "false" is a meaningful flag state.
func Merge(base, update Document) (Document, error) {
	merged := base
	if err := mergo.Merge(&merged, update, mergo.WithOverride); err != nil {
		return base, err
	}
	// mergo treats false as a zero value and would keep the old flag state.
	merged.FeatureXEnabled = update.FeatureXEnabled
	merged.DebugMode = update.DebugMode
	return merged, nil
}

func (d Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// MustMarshalIndent is for seeding infrastructure definitions where a
// marshal failure is a programming error.
func (d Document) MustMarshalIndent() string {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}
