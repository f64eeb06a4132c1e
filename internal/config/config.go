// Package config loads wp-externals settings from file, environment and flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/fluxbase-eu/wp-externals/internal/externals"
	"github.com/fluxbase-eu/wp-externals/internal/manifest"
	"github.com/fluxbase-eu/wp-externals/internal/plugin"
)

// EnvPrefix prefixes every environment override, e.g. WP_EXTERNALS_BUILD_OUT_DIR.
const EnvPrefix = "WP_EXTERNALS"

// Config is the complete tool configuration.
type Config struct {
	PackageJSON string          `mapstructure:"package_json"`
	Debug       bool            `mapstructure:"debug"`
	Namespace   NamespaceConfig `mapstructure:"namespace"`
	Externals   ExternalsConfig `mapstructure:"externals"`
	Manifest    ManifestConfig  `mapstructure:"manifest"`
	Build       BuildConfig     `mapstructure:"build"`
}

// NamespaceConfig mirrors externals.Namespace.
type NamespaceConfig struct {
	PackagePrefix      string `mapstructure:"package_prefix"`
	GlobalRoot         string `mapstructure:"global_root"`
	HandlePrefix       string `mapstructure:"handle_prefix"`
	ExperimentalMarker string `mapstructure:"experimental_marker"`
}

// ExternalsConfig controls package discovery.
type ExternalsConfig struct {
	IncludeDev bool `mapstructure:"include_dev"`
}

// HandleRemap corrects one runtime handle. A list is used instead of a map
// because viper lower-cases map keys and handles are case sensitive.
type HandleRemap struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// ManifestConfig controls manifest generation.
type ManifestConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Format      string        `mapstructure:"format"`
	Hash        string        `mapstructure:"hash"`
	HandleRemap []HandleRemap `mapstructure:"handle_remap"`
}

// BuildConfig controls the esbuild invocation of the build command.
type BuildConfig struct {
	Entries   []string `mapstructure:"entries"`
	OutDir    string   `mapstructure:"out_dir"`
	Format    string   `mapstructure:"format"`
	Target    string   `mapstructure:"target"`
	Minify    bool     `mapstructure:"minify"`
	Sourcemap bool     `mapstructure:"sourcemap"`
}

// Load reads configuration into v. configFile overrides the search path;
// a missing default config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("wp-externals")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads environment variables from the first .env file found.
func loadEnvFile() error {
	for _, location := range []string{".env", ".env.local"} {
		if _, err := os.Stat(location); err == nil {
			if err := godotenv.Load(location); err != nil {
				return fmt.Errorf("error loading .env file from %s: %w", location, err)
			}
			log.Debug().Str("file", location).Msg(".env file loaded")
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}

func setDefaults(v *viper.Viper) {
	ns := externals.DefaultNamespace()

	v.SetDefault("package_json", "./package.json")
	v.SetDefault("debug", false)

	v.SetDefault("namespace.package_prefix", ns.PackagePrefix)
	v.SetDefault("namespace.global_root", ns.GlobalRoot)
	v.SetDefault("namespace.handle_prefix", ns.HandlePrefix)
	v.SetDefault("namespace.experimental_marker", ns.ExperimentalMarker)

	v.SetDefault("externals.include_dev", false)

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.format", string(manifest.FormatPHP))
	v.SetDefault("manifest.hash", string(manifest.HashMD5))

	v.SetDefault("build.entries", []string{"src/index.js"})
	v.SetDefault("build.out_dir", "dist")
	v.SetDefault("build.format", "iife")
	v.SetDefault("build.target", "es2019")
	v.SetDefault("build.minify", false)
	v.SetDefault("build.sourcemap", false)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.PackageJSON == "" {
		return fmt.Errorf("package_json cannot be empty")
	}
	if err := c.Namespace.Validate(); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if err := c.Manifest.Validate(); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

// Validate checks the namespace fields.
func (n NamespaceConfig) Validate() error {
	return n.ToNamespace().Validate()
}

// ToNamespace converts the section into an externals.Namespace.
func (n NamespaceConfig) ToNamespace() externals.Namespace {
	return externals.Namespace{
		PackagePrefix:      n.PackagePrefix,
		GlobalRoot:         n.GlobalRoot,
		HandlePrefix:       n.HandlePrefix,
		ExperimentalMarker: n.ExperimentalMarker,
	}
}

// Validate checks the manifest settings.
func (m ManifestConfig) Validate() error {
	if _, err := manifest.ParseFormat(m.Format); err != nil {
		return err
	}
	if _, err := manifest.ParseHashAlgorithm(m.Hash); err != nil {
		return err
	}
	for i, r := range m.HandleRemap {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("handle_remap[%d] needs both from and to", i)
		}
	}
	return nil
}

// HandleMap converts the remap list into a lookup table.
func (m ManifestConfig) HandleMap() map[string]string {
	out := make(map[string]string, len(m.HandleRemap))
	for _, r := range m.HandleRemap {
		out[r.From] = r.To
	}
	return out
}

// Validate checks the build settings.
func (b BuildConfig) Validate() error {
	if b.OutDir == "" {
		return fmt.Errorf("out_dir cannot be empty")
	}
	switch strings.ToLower(b.Format) {
	case "iife", "esm", "cjs":
	default:
		return fmt.Errorf("invalid format: %s (valid: iife, esm, cjs)", b.Format)
	}
	return nil
}

// PluginOptions builds the plugin options for this configuration.
func (c *Config) PluginOptions() plugin.Options {
	format, _ := manifest.ParseFormat(c.Manifest.Format)
	hash, _ := manifest.ParseHashAlgorithm(c.Manifest.Hash)

	return plugin.Options{
		Manifest:    c.Manifest.Enabled,
		PackageJSON: c.PackageJSON,
		IncludeDev:  c.Externals.IncludeDev,
		OutDir:      c.Build.OutDir,
		Namespace:   c.Namespace.ToNamespace(),
		HandleMap:   c.Manifest.HandleMap(),
		Hash:        hash,
		Format:      format,
	}
}
