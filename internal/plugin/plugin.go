// Package plugin exposes the externals transformer through the hooks a host
// build pipeline calls: configuration, source transformation, and bundle
// generation.
package plugin

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/fluxbase-eu/wp-externals/internal/externals"
	"github.com/fluxbase-eu/wp-externals/internal/manifest"
)

// Name identifies the plugin to the host.
const Name = "wordpress-externals"

// sourceFilter selects the modules the rewrite stage runs on.
const sourceFilter = `\.(m?js|cjs|jsx|ts|tsx)$`

// Options configures the plugin.
type Options struct {
	// Manifest controls whether GenerateBundle writes manifests.
	Manifest    bool
	PackageJSON string
	IncludeDev  bool
	OutDir      string
	Namespace   externals.Namespace
	// HandleMap extends the built-in handle corrections.
	HandleMap map[string]string
	Hash      manifest.HashAlgorithm
	Format    manifest.Format
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Manifest:    true,
		PackageJSON: "./package.json",
		OutDir:      "dist",
		Namespace:   externals.DefaultNamespace(),
		Hash:        manifest.HashMD5,
		Format:      manifest.FormatPHP,
	}
}

// Plugin wires the registry, rewriter and manifest generator together.
type Plugin struct {
	fs        afero.Fs
	opts      Options
	registry  *externals.Registry
	rewriter  *externals.Rewriter
	config    externals.BuildConfig
	handles   manifest.HandleMap
	generator *manifest.Generator
}

// New reads the package metadata and prepares every stage. A missing or
// malformed package.json is returned as an error.
func New(fs afero.Fs, opts Options) (*Plugin, error) {
	if err := opts.Namespace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid namespace: %w", err)
	}

	registry, err := externals.LoadRegistry(fs, opts.PackageJSON, opts.Namespace, opts.IncludeDev)
	if err != nil {
		return nil, err
	}

	handles := manifest.DefaultHandleMap().With(opts.HandleMap)
	generator, err := newGenerator(fs, opts, handles)
	if err != nil {
		return nil, err
	}

	return &Plugin{
		fs:        fs,
		opts:      opts,
		registry:  registry,
		rewriter:  externals.NewRewriter(registry),
		config:    externals.NewBuildConfig(registry),
		handles:   handles,
		generator: generator,
	}, nil
}

func newGenerator(fs afero.Fs, opts Options, handles manifest.HandleMap) (*manifest.Generator, error) {
	return manifest.NewGenerator(fs, manifest.Options{
		OutDir:    opts.OutDir,
		Namespace: opts.Namespace,
		Handles:   handles,
		Hash:      opts.Hash,
		Format:    opts.Format,
	})
}

// WithWorkDir returns a copy of p whose relative OutDir is resolved against
// dir. p itself is returned when OutDir is already absolute.
func (p *Plugin) WithWorkDir(dir string) (*Plugin, error) {
	if filepath.IsAbs(p.opts.OutDir) {
		return p, nil
	}

	opts := p.opts
	opts.OutDir = filepath.Join(dir, opts.OutDir)
	generator, err := newGenerator(p.fs, opts, p.handles)
	if err != nil {
		return nil, err
	}

	rebased := *p
	rebased.opts = opts
	rebased.generator = generator
	return &rebased, nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Registry returns the externalized packages.
func (p *Plugin) Registry() *externals.Registry {
	return p.registry
}

// Rewriter returns the import rewriter.
func (p *Plugin) Rewriter() *externals.Rewriter {
	return p.rewriter
}

// Handle maps a global reference such as "wp.blockEditor" to the runtime
// handle the manifest will list for it.
func (p *Plugin) Handle(global string) string {
	return p.handles.Resolve(p.opts.Namespace.Handle(global))
}

// OutDir is the directory manifests are resolved against.
func (p *Plugin) OutDir() string {
	return p.opts.OutDir
}

// Config is the configuration hook: externals and globals for the bundler.
func (p *Plugin) Config() externals.BuildConfig {
	return p.config
}

// ESBuild returns the esbuild plugins to register, in order: the rewrite
// stage first so later stages never see imports of externalized packages,
// then the globals shim for imports that had to survive.
func (p *Plugin) ESBuild() []api.Plugin {
	return []api.Plugin{p.rewritePlugin(), p.config.GlobalsPlugin()}
}

func (p *Plugin) rewritePlugin() api.Plugin {
	return api.Plugin{
		Name: Name + ":pre",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: sourceFilter, Namespace: "file"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					src, err := afero.ReadFile(p.fs, args.Path)
					if err != nil {
						return api.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", args.Path, err)
					}

					out, stats := p.rewriter.RewriteWithStats(string(src))
					if len(stats) > 0 {
						log.Debug().
							Str("file", args.Path).
							Interface("rewrites", stats).
							Msg("Rewrote external imports")
					}

					return api.OnLoadResult{
						Contents:   &out,
						ResolveDir: filepath.Dir(args.Path),
						Loader:     loaderFor(args.Path),
					}, nil
				})
		},
	}
}

// GenerateBundle is the post-bundle hook. It does nothing when manifests
// are disabled.
func (p *Plugin) GenerateBundle(chunks []manifest.Chunk) ([]manifest.Written, error) {
	if !p.opts.Manifest {
		return nil, nil
	}
	return p.generator.Generate(chunks)
}

// loaderFor picks the esbuild loader for a rewritten source. Block sources
// routinely put JSX in .js files, so those get the JSX loader too. Installed
// packages under node_modules ship plain JS and keep the JS loader.
func loaderFor(path string) api.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		if isDependency(path) {
			return api.LoaderJS
		}
		return api.LoaderJSX
	case ".jsx":
		return api.LoaderJSX
	case ".ts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	default:
		return api.LoaderJS
	}
}

func isDependency(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "node_modules" {
			return true
		}
	}
	return false
}
