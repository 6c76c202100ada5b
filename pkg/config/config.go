// Package config loads yailc settings from a YAML file.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/yailc/pkg/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to build a registry and emit code.
type Config struct {
	LogLevel    string   `yaml:"logLevel"`
	Strict      bool     `yaml:"strict"`
	Concurrency int      `yaml:"concurrency"`
	Registry    Registry `yaml:"registry"`
	// Output is the destination file; empty means stdout.
	Output string `yaml:"output,omitempty"`
}

// Registry lists the sources component types are loaded from.
type Registry struct {
	Descriptors []string        `yaml:"descriptors,omitempty"`
	OpenAPI     []OpenAPISource `yaml:"openapi,omitempty"`
	Database    string          `yaml:"database,omitempty"`
}

// OpenAPISource is an OpenAPI document imported as an API component.
type OpenAPISource struct {
	Path      string `yaml:"path"`
	Name      string `yaml:"name,omitempty"`
	ServerURL string `yaml:"serverUrl,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		Strict:      true,
		Concurrency: 8,
	}
}

// Decode reads YAML from r over the defaults.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the file at path. Relative source paths in the file are taken
// relative to the file's directory. An empty path yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config")
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	c.resolve(filepath.Dir(path))
	return c, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "logLevel")
	}
	if c.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	for i, src := range c.Registry.OpenAPI {
		if src.Path == "" {
			return errors.Errorf("registry.openapi[%d]: missing path", i)
		}
	}
	return nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, p := range c.Registry.Descriptors {
		c.Registry.Descriptors[i] = abs(p)
	}
	for i := range c.Registry.OpenAPI {
		c.Registry.OpenAPI[i].Path = abs(c.Registry.OpenAPI[i].Path)
	}
	c.Registry.Database = abs(c.Registry.Database)
}
