package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides (XWIN_LOG_LEVEL, ...).
const EnvPrefix = "xwin"

// envOverrides are applied after the config file.
type envOverrides struct {
	Display       string `envconfig:"DISPLAY"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
	DialogBackend string `envconfig:"DIALOG_BACKEND"`
	FrameRate     *int   `envconfig:"FRAME_RATE"`
	ResourceDir   string `envconfig:"RESOURCE_DIR"`
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xwin", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path over the defaults, applies environment overrides
// and validates the result. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Windows listed in the file replace the default window.
		fileCfg := *cfg
		fileCfg.Windows = nil
		if err := decodeStrictYAML(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(fileCfg.Windows) == 0 {
			fileCfg.Windows = cfg.Windows
		}
		cfg = &fileCfg
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	if env.Display != "" {
		cfg.Display = env.Display
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
	if env.DialogBackend != "" {
		cfg.Dialog.Backend = env.DialogBackend
	}
	if env.FrameRate != nil {
		cfg.FrameRate = *env.FrameRate
	}
	if env.ResourceDir != "" {
		cfg.Resources.Dir = env.ResourceDir
	}
	return nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
