package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultConfigPath is where settings are looked up when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "factiva2csv", "config.yaml")
}

// flagKeys maps settings keys to the flag that overrides them.
var flagKeys = map[string]string{
	"input":      "input",
	"output":     "output",
	"merge":      "merge",
	"labels":     "labels",
	"workers":    "workers",
	"lossy":      "lossy",
	"bom":        "bom",
	"extensions": "ext",
	"recursive":  "recursive",
	"manifest":   "manifest",
	"pdf":        "pdf",
	"summary":    "summary",
	"verbose":    "verbose",
	"log_json":   "log-json",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("merge", false)
	v.SetDefault("labels", "")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("lossy", true)
	v.SetDefault("bom", true)
	v.SetDefault("extensions", defaultExtensions)
	v.SetDefault("recursive", false)
	v.SetDefault("manifest", false)
	v.SetDefault("pdf", "")
	v.SetDefault("summary", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_json", false)
}

// LoadConfig resolves settings from, lowest first: built-in defaults, the
// config file, FACTIVA2CSV_* environment variables, and flags that were set
// explicitly. Dotenv files named by --env-file are loaded into the
// environment before it is read. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (Config, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)

	if flags != nil {
		if files, err := flags.GetStringSlice("env-file"); err == nil {
			if err := LoadEnvFiles(files...); err != nil {
				return cfg, fmt.Errorf("load env files: %w", err)
			}
		}
	}
	bindEnv(v)

	path, explicit := configPath(flags)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			cfg.ConfigFile = path
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode settings: %w", err)
	}
	return cfg, nil
}

// configPath returns the settings file to read and whether it was named
// explicitly. The default location is optional; an explicit one is not.
func configPath(flags *pflag.FlagSet) (string, bool) {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && strings.TrimSpace(f.Value.String()) != "" {
			return strings.TrimSpace(f.Value.String()), true
		}
	}
	if p := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG")); p != "" {
		return p, true
	}
	p := DefaultConfigPath()
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, false
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
