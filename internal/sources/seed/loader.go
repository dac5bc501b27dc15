package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Loader handles loading and parsing of a seed file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = expandTemplateVariables(data, os.Getenv)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return file, nil
}

// expandTemplateVariables replaces {{NAME}} with the value of NAME.
// Unset variables become an empty YAML string.
func expandTemplateVariables(data []byte, lookup func(string) string) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		if v := lookup(string(name)); v != "" {
			return []byte(v)
		}
		return []byte(`""`)
	})
}
