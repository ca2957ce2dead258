package hub

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/hub.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// Config is the typed form of configs/config.json.
type Config struct {
	Servers ServersConfig `json:"servers"`
	CLIs    CLIsConfig    `json:"clis"`
}

// ServersConfig lists registry categories and the defaults every item config
// is merged over.
type ServersConfig struct {
	Categories    []string       `json:"categories"`
	DefaultConfig map[string]any `json:"default_config,omitempty"`
}

// CLIsConfig lists the statically known targets and their configured roots.
type CLIsConfig struct {
	Supported   []string          `json:"supported"`
	ConfigPaths map[string]string `json:"config_paths"`
}

// ConfigPath returns the configured root for a target, unexpanded.
func (c *Config) ConfigPath(target string) string {
	return c.CLIs.ConfigPaths[target]
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("hub.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("hub.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// LoadConfig reads, validates and decodes configs/config.json.
func LoadConfig(layout Layout) (*Config, error) {
	path := layout.ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Op: "reading", Path: path, Err: err}
	}
	return ParseConfig(path, data)
}

// ParseConfig validates raw config.json bytes against the hub schema and
// decodes them. path is used only in error messages.
func ParseConfig(path string, data []byte) (*Config, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, &ConfigError{Op: "loading schema", Err: err}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ConfigError{Op: "parsing", Path: path, Err: err}
	}
	if err := schema.Validate(inst); err != nil {
		return nil, &ConfigError{Op: "validating", Path: path, Err: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Op: "decoding", Path: path, Err: err}
	}

	for _, name := range cfg.CLIs.Supported {
		if cfg.CLIs.ConfigPaths[name] == "" {
			return nil, &ConfigError{
				Op:   "validating",
				Path: path,
				Err:  fmt.Errorf("supported CLI %q has no entry in clis.config_paths", name),
			}
		}
	}
	if cfg.Servers.DefaultConfig == nil {
		cfg.Servers.DefaultConfig = map[string]any{}
	}

	return &cfg, nil
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
