package schema

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadJSON decodes a JSON array of component descriptors, the format of
// simple_components.json.
func LoadJSON(r io.Reader) ([]ComponentType, error) {
	var types []ComponentType
	if err := json.NewDecoder(r).Decode(&types); err != nil {
		return nil, errors.Wrap(err, "failed to decode component descriptors")
	}
	return types, nil
}

// LoadYAML decodes a YAML list of component descriptors.
func LoadYAML(r io.Reader) ([]ComponentType, error) {
	var types []ComponentType
	if err := yaml.NewDecoder(r).Decode(&types); err != nil {
		return nil, errors.Wrap(err, "failed to decode component descriptors")
	}
	return types, nil
}

// LoadFile reads descriptors from path, choosing the decoder by extension.
func LoadFile(path string) ([]ComponentType, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open descriptor file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		types, err := LoadYAML(f)
		return types, errors.Wrap(err, path)
	default:
		types, err := LoadJSON(f)
		return types, errors.Wrap(err, path)
	}
}

// RegisterAll adds every type to the registry, stopping at the first error.
func (r *MemoryRegistry) RegisterAll(types []ComponentType) error {
	for _, ct := range types {
		if err := r.Register(ct); err != nil {
			return err
		}
	}
	return nil
}
