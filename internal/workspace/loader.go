// Package workspace parses system description files, the hand-off format
// between simulation layers and the measurement engine.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a system description file (YAML or JSON) and returns
// the parsed SystemDescription. Format is detected by extension (.yaml/.yml →
// YAML, .json → JSON) or by content (first non-whitespace char).
func LoadFromPath(path string) (*SystemDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system description: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a system description from bytes. ext is the file extension
// (e.g. ".json", ".yaml") for format hint; empty = detect from content.
func Load(data []byte, ext string) (*SystemDescription, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == ".yaml" {
		return parseYAML(data)
	}
	if ext == ".json" {
		return parseJSON(data)
	}
	// Detect: try JSON first (starts with {), else YAML
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*SystemDescription, error) {
	var d SystemDescription
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse system description yaml: %w", err)
	}
	return &d, nil
}

func parseJSON(data []byte) (*SystemDescription, error) {
	var d SystemDescription
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse system description json: %w", err)
	}
	return &d, nil
}
