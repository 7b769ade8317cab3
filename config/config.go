package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/schema"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Format names the syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ConfigNames are the file names searched for, in order.
var ConfigNames = []string{"presets.yml", "presets.yaml", "presets.toml"}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// FormatFor picks the decoder for a configuration file by extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatFor(path))
	if err != nil {
		if pe, ok := errors.As(err); ok {
			return nil, pe.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromBytes parses configuration from a byte array.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	expanded := expandEnvVars(string(data))

	raw := map[string]interface{}{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
	default:
		if len(bytes.TrimSpace([]byte(expanded))) > 0 {
			if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
			}
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	validator, err := schemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		wrapped := errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
		var verr *schema.ValidationError
		if stderrors.As(err, &verr) {
			wrapped = wrapped.WithDetail("problems", verr.Problems())
		}
		return nil, wrapped
	}

	var cfg Config
	if err := cfg.decodeRaw(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfigFile returns the first configuration file present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.ConfigNotFound(dir).WithDetail("searchPath", dir)
}

// LoadDefault loads the configuration file from the configuration directory.
func LoadDefault() (*Config, error) {
	path, err := FindConfigFile(paths.ConfigDir())
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// LoadOrDefault loads path (or the default location when path is empty) and
// falls back to Default when no file exists. Invalid files are still errors.
func LoadOrDefault(path string, logger *logrus.Logger) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		cfg, err = LoadDefault()
	}
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, errors.ErrCodeConfigNotFound) {
		if logger != nil {
			logger.WithField("path", path).Debug("No configuration file found, using defaults")
		}
		return Default(), nil
	}
	return nil, err
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
