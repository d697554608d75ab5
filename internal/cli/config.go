package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "panemux"

// Config is the tool-level configuration, loaded from a TOML file. It
// never reaches the resolver itself, which takes explicit arguments; it
// only supplies CLI defaults.
type Config struct {
	// DefaultCwd is used as the global working directory when --cwd is
	// not given.
	DefaultCwd string `toml:"default_cwd"`
	// LayoutDirs are searched by the serve command and by bare layout
	// names.
	LayoutDirs []string `toml:"layout_dirs"`
	// ServeAddr is the default listen address for the serve command.
	ServeAddr string `toml:"serve_addr"`
}

// DefaultConfig returns the configuration used when no config file
// exists.
func DefaultConfig() Config {
	return Config{ServeAddr: ":8421"}
}

// LoadConfig reads the TOML config at path, or the default location
// (~/.config/panemux/config.toml) when path is empty. A missing file is
// not an error; defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultConfig().ServeAddr
	}
	return cfg, nil
}

// defaultConfigPath returns the XDG config location.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
