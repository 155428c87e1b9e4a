package liveconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// parseFile reads and parses a configuration document. The format follows
// the file extension; the document root must be a table/mapping.
func parseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	tree := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing toml config %s: %w", path, err)
		}
	case ".json":
		if len(data) > 0 {
			if err := json.Unmarshal(data, &tree); err != nil {
				return nil, fmt.Errorf("parsing json config %s: %w", path, err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q for %s", ext, path)
	}

	if tree == nil {
		tree = make(map[string]any)
	}
	return tree, nil
}
