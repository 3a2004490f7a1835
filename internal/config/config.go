// Package config loads earthscan settings from defaults, an optional TOML
// file, EARTHSCAN_* environment variables and command-line overrides, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".earthscan.toml"

const envPrefix = "EARTHSCAN_"

// RegistryAlias rewrites references starting with Prefix+"/" to start with
// Replacement instead before they are described.
type RegistryAlias struct {
	Prefix      string `koanf:"prefix"`
	Replacement string `koanf:"replacement"`
}

// Config holds all settings.
type Config struct {
	// Format is the output format: "text" or "json".
	Format string `koanf:"format"`
	// LogLevel is a logrus level name.
	LogLevel string `koanf:"log-level"`
	// Include are doublestar globs selecting build files inside directories.
	Include []string `koanf:"include"`
	// Exclude are .earthlyignore-style patterns applied on top of the
	// ignore file found in the walked directory.
	Exclude         []string        `koanf:"exclude"`
	RegistryAliases []RegistryAlias `koanf:"registry-aliases"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:   "text",
		LogLevel: "warning",
		Include:  []string{"**/Earthfile"},
	}
}

// Load builds the effective configuration. path may be empty, in which case
// DefaultFile is used if it exists. overrides holds flag values keyed like
// the TOML file; nil or empty values are ignored.
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if set := nonEmpty(overrides); len(set) > 0 {
		if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

// transformEnv maps EARTHSCAN_LOG_LEVEL to "log-level"; list settings are
// whitespace separated.
func transformEnv(k, v string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", "-")
	switch key {
	case "include", "exclude":
		return key, strings.Fields(v)
	case "format", "log-level":
		return key, v
	default:
		// Aliases are structured and only come from the file or flags.
		return "", nil
	}
}

func nonEmpty(overrides map[string]any) map[string]any {
	set := make(map[string]any, len(overrides))
	for k, v := range overrides {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val == "" {
				continue
			}
		case []string:
			if len(val) == 0 {
				continue
			}
		}
		set[k] = v
	}
	return set
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	for _, a := range c.RegistryAliases {
		if a.Prefix == "" || a.Replacement == "" {
			return errors.New("registry alias needs both prefix and replacement")
		}
	}
	return nil
}

// AliasMap returns the registry aliases keyed by prefix. Later entries
// override earlier ones with the same prefix.
func (c Config) AliasMap() map[string]string {
	if len(c.RegistryAliases) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.RegistryAliases))
	for _, a := range c.RegistryAliases {
		m[a.Prefix] = a.Replacement
	}
	return m
}

// ParseAlias parses a "prefix=replacement" flag value.
func ParseAlias(s string) (RegistryAlias, error) {
	prefix, replacement, ok := strings.Cut(s, "=")
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	replacement = strings.TrimSuffix(strings.TrimSpace(replacement), "/")
	if !ok || prefix == "" || replacement == "" {
		return RegistryAlias{}, fmt.Errorf("invalid registry alias %q, want prefix=replacement", s)
	}
	return RegistryAlias{Prefix: prefix, Replacement: replacement}, nil
}
