// Package bundler runs esbuild with the externals plugin and acts as the
// host pipeline: it writes the outputs and then triggers manifest generation.
package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/fluxbase-eu/wp-externals/internal/manifest"
	"github.com/fluxbase-eu/wp-externals/internal/plugin"
)

// Options configures a build.
type Options struct {
	// Entries are file paths or glob patterns relative to WorkDir.
	Entries []string
	// WorkDir defaults to the current directory.
	WorkDir     string
	Format      string
	Target      string
	Minify      bool
	Sourcemap   bool
	JSXFactory  string
	JSXFragment string
}

// Bundler builds entry points with esbuild and the externals plugin.
type Bundler struct {
	fs     afero.Fs
	plugin *plugin.Plugin
	opts   Options
}

// OutputInfo describes one emitted file.
type OutputInfo struct {
	Path    string `json:"path" yaml:"path"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
	IsEntry bool   `json:"entry" yaml:"entry"`
	Kind    string `json:"kind" yaml:"kind"`
}

// BuildReport contains everything a build produced.
type BuildReport struct {
	Entries   []string           `json:"entries" yaml:"entries"`
	Outputs   []OutputInfo       `json:"outputs" yaml:"outputs"`
	Manifests []manifest.Written `json:"manifests" yaml:"manifests"`
	Externals []string           `json:"externals" yaml:"externals"`
	Warnings  []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewBundler creates a bundler writing through fs. A relative plugin OutDir
// is resolved against opts.WorkDir.
func NewBundler(fs afero.Fs, p *plugin.Plugin, opts Options) (*Bundler, error) {
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		opts.WorkDir = wd
	}
	abs, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	opts.WorkDir = abs

	if _, err := parseFormat(opts.Format); err != nil {
		return nil, err
	}
	if _, err := parseTarget(opts.Target); err != nil {
		return nil, err
	}

	p, err = p.WithWorkDir(opts.WorkDir)
	if err != nil {
		return nil, err
	}

	return &Bundler{fs: fs, plugin: p, opts: opts}, nil
}

// ResolveEntries expands glob patterns relative to workDir into a sorted,
// de-duplicated list of absolute paths. A literal path that does not exist
// is an error; a glob matching nothing is not.
func ResolveEntries(workDir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var entries []string

	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(workDir, pattern)
		}

		matches, err := doublestar.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("invalid entry pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, fmt.Errorf("entry %s not found", pattern)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				entries = append(entries, m)
			}
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no entry points matched %s", strings.Join(patterns, ", "))
	}

	sort.Strings(entries)
	return entries, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Build bundles the entries, writes the outputs and generates manifests.
func (b *Bundler) Build(ctx context.Context) (*BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := ResolveEntries(b.opts.WorkDir, b.opts.Entries)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Clean(b.plugin.OutDir())

	format, _ := parseFormat(b.opts.Format)
	target, _ := parseTarget(b.opts.Target)

	buildOpts := api.BuildOptions{
		EntryPoints:       entries,
		Bundle:            true,
		Write:             false,
		Metafile:          true,
		Outdir:            outDir,
		Format:            format,
		Target:            target,
		Platform:          api.PlatformBrowser,
		MinifyWhitespace:  b.opts.Minify,
		MinifyIdentifiers: b.opts.Minify,
		MinifySyntax:      b.opts.Minify,
		JSXFactory:        b.opts.JSXFactory,
		JSXFragment:       b.opts.JSXFragment,
		AbsWorkingDir:     b.opts.WorkDir,
		LogLevel:          api.LogLevelSilent,
		Plugins:           b.plugin.ESBuild(),
	}
	if b.opts.Sourcemap {
		buildOpts.Sourcemap = api.SourceMapLinked
	}
	b.plugin.Config().Apply(&buildOpts)

	log.Debug().
		Strs("entries", entries).
		Str("outdir", outDir).
		Strs("external", buildOpts.External).
		Msg("Running esbuild")

	result := api.Build(buildOpts)

	if len(result.Errors) > 0 {
		var errMsgs []string
		for _, msg := range result.Errors {
			errMsgs = append(errMsgs, formatMessage(msg))
		}
		return nil, fmt.Errorf("build failed: %s", strings.Join(errMsgs, "; "))
	}

	report := &BuildReport{
		Entries:   relativeTo(b.opts.WorkDir, entries),
		Externals: b.plugin.Config().External,
	}
	for _, msg := range result.Warnings {
		report.Warnings = append(report.Warnings, formatMessage(msg))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, file := range result.OutputFiles {
		if err := b.fs.MkdirAll(filepath.Dir(file.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", file.Path, err)
		}
		if err := afero.WriteFile(b.fs, file.Path, file.Contents, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	chunks, err := plugin.ChunksFromResult(result, b.opts.WorkDir, outDir)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		report.Outputs = append(report.Outputs, OutputInfo{
			Path:    c.FileName,
			Bytes:   len(c.Code),
			IsEntry: c.IsEntry,
			Kind:    c.Kind.String(),
		})
	}

	report.Manifests, err = b.plugin.GenerateBundle(chunks)
	if err != nil {
		return nil, err
	}

	return report, nil
}

func formatMessage(msg api.Message) string {
	if msg.Location == nil {
		return msg.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
}

func relativeTo(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			rel = p
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func parseFormat(s string) (api.Format, error) {
	switch strings.ToLower(s) {
	case "", "iife":
		return api.FormatIIFE, nil
	case "esm":
		return api.FormatESModule, nil
	case "cjs":
		return api.FormatCommonJS, nil
	default:
		return api.FormatDefault, fmt.Errorf("invalid format: %s (valid: iife, esm, cjs)", s)
	}
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

func parseTarget(s string) (api.Target, error) {
	if s == "" {
		return api.ESNext, nil
	}
	target, ok := targets[strings.ToLower(s)]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("invalid target: %s", s)
	}
	return target, nil
}
