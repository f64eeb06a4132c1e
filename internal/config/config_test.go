package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxbase-eu/wp-externals/internal/manifest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wp-externals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "./package.json", cfg.PackageJSON)
	assert.Equal(t, "@wordpress/", cfg.Namespace.PackagePrefix)
	assert.Equal(t, "wp", cfg.Namespace.GlobalRoot)
	assert.True(t, cfg.Manifest.Enabled)
	assert.Equal(t, "php", cfg.Manifest.Format)
	assert.Equal(t, "dist", cfg.Build.OutDir)
	assert.Equal(t, []string{"src/index.js"}, cfg.Build.Entries)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
package_json: ./plugin/package.json
externals:
  include_dev: true
manifest:
  enabled: false
  format: json
  hash: xxhash
  handle_remap:
    - from: wp-editPost
      to: wp-edit-post
build:
  entries:
    - "src/blocks/**/index.js"
  out_dir: build
  format: esm
  minify: true
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.True(t, cfg.Externals.IncludeDev)
	assert.False(t, cfg.Manifest.Enabled)
	assert.Equal(t, map[string]string{"wp-editPost": "wp-edit-post"}, cfg.Manifest.HandleMap())
	assert.Equal(t, []string{"src/blocks/**/index.js"}, cfg.Build.Entries)

	opts := cfg.PluginOptions()
	assert.False(t, opts.Manifest)
	assert.True(t, opts.IncludeDev)
	assert.Equal(t, "build", opts.OutDir)
	assert.Equal(t, manifest.FormatJSON, opts.Format)
	assert.Equal(t, manifest.HashXXHash, opts.Hash)
	assert.Equal(t, "wp", opts.Namespace.GlobalRoot)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "build:\n  out_dir: build\n")
	t.Setenv("WP_EXTERNALS_BUILD_OUT_DIR", "public/js")
	t.Setenv("WP_EXTERNALS_MANIFEST_ENABLED", "false")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "public/js", cfg.Build.OutDir)
	assert.False(t, cfg.Manifest.Enabled)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			PackageJSON: "./package.json",
			Namespace: NamespaceConfig{
				PackagePrefix:      "@wordpress/",
				GlobalRoot:         "wp",
				HandlePrefix:       "wp-",
				ExperimentalMarker: "__experimental",
			},
			Manifest: ManifestConfig{Enabled: true, Format: "php", Hash: "md5"},
			Build:    BuildConfig{OutDir: "dist", Format: "iife"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "empty package json", mutate: func(c *Config) { c.PackageJSON = "" }, wantErr: true, errMsg: "package_json cannot be empty"},
		{name: "bad global root", mutate: func(c *Config) { c.Namespace.GlobalRoot = "1wp" }, wantErr: true, errMsg: "namespace"},
		{name: "bad manifest format", mutate: func(c *Config) { c.Manifest.Format = "xml" }, wantErr: true, errMsg: "invalid manifest format"},
		{name: "bad hash", mutate: func(c *Config) { c.Manifest.Hash = "sha1" }, wantErr: true, errMsg: "invalid hash algorithm"},
		{name: "incomplete remap", mutate: func(c *Config) {
			c.Manifest.HandleRemap = []HandleRemap{{From: "wp-a"}}
		}, wantErr: true, errMsg: "handle_remap[0]"},
		{name: "empty out dir", mutate: func(c *Config) { c.Build.OutDir = "" }, wantErr: true, errMsg: "out_dir cannot be empty"},
		{name: "bad build format", mutate: func(c *Config) { c.Build.Format = "umd" }, wantErr: true, errMsg: "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
