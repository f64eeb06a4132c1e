package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/fluxbase-eu/wp-externals/internal/externals"
)

// Options configures a Generator.
type Options struct {
	// OutDir is where the bundler wrote its output files.
	OutDir    string
	Namespace externals.Namespace
	Handles   HandleMap
	Hash      HashAlgorithm
	Format    Format
	// CodeExtension selects which entry files get a manifest.
	CodeExtension string
}

// Generator writes one manifest per emitted entry chunk.
type Generator struct {
	fs      afero.Fs
	opts    Options
	globals *regexp.Regexp
}

// NewGenerator creates a generator writing through fs.
func NewGenerator(fs afero.Fs, opts Options) (*Generator, error) {
	if err := opts.Namespace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid namespace: %w", err)
	}
	if opts.CodeExtension == "" {
		opts.CodeExtension = ".js"
	}
	if opts.Handles == nil {
		opts.Handles = DefaultHandleMap()
	}
	if opts.Hash == "" {
		opts.Hash = HashMD5
	}
	if opts.Format == "" {
		opts.Format = FormatPHP
	}

	return &Generator{
		fs:      fs,
		opts:    opts,
		globals: regexp.MustCompile(regexp.QuoteMeta(opts.Namespace.GlobalRoot) + `\.[a-zA-Z0-9_-]+`),
	}, nil
}

// Generate writes manifests for the qualifying chunks, in order. Entry
// chunks whose file is missing from OutDir are skipped. The first write
// failure aborts generation.
func (g *Generator) Generate(chunks []Chunk) ([]Written, error) {
	var written []Written
	for _, chunk := range chunks {
		if chunk.Kind != KindChunk || !chunk.IsEntry || !strings.HasSuffix(chunk.FileName, g.opts.CodeExtension) {
			continue
		}

		fullPath := filepath.Join(g.opts.OutDir, chunk.FileName)
		exists, err := afero.Exists(g.fs, fullPath)
		if err != nil {
			return written, fmt.Errorf("failed to stat %s: %w", fullPath, err)
		}
		if !exists {
			log.Debug().Str("chunk", chunk.FileName).Msg("Output file not found, skipping manifest")
			continue
		}

		rec, err := g.Record(chunk.Code)
		if err != nil {
			return written, err
		}

		data, err := Serialize(g.opts.Format, rec)
		if err != nil {
			return written, err
		}

		manifestPath := strings.TrimSuffix(fullPath, g.opts.CodeExtension) + g.opts.Format.Extension()
		if err := afero.WriteFile(g.fs, manifestPath, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write asset manifest %s: %w", manifestPath, err)
		}

		log.Info().
			Str("manifest", relativePath(manifestPath)).
			Strs("dependencies", rec.Dependencies).
			Str("version", rec.Version).
			Msg("[wordpress-externals] Wrote asset manifest")

		written = append(written, Written{
			Chunk:  chunk.FileName,
			Path:   manifestPath,
			Record: rec,
		})
	}
	return written, nil
}

// Record computes the manifest content for a chunk's final code.
func (g *Generator) Record(code string) (Record, error) {
	version, err := Fingerprint(g.opts.Hash, code)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Dependencies: g.Dependencies(code),
		Version:      version,
	}, nil
}

// Dependencies scans code for global references and returns the sorted,
// de-duplicated runtime handles. The scan is textual, so a matching
// substring inside a string literal counts as a reference.
func (g *Generator) Dependencies(code string) []string {
	seen := make(map[string]bool)
	deps := []string{}
	for _, ref := range g.globals.FindAllString(code, -1) {
		handle := g.opts.Handles.Resolve(g.opts.Namespace.Handle(ref))
		if seen[handle] {
			continue
		}
		seen[handle] = true
		deps = append(deps, handle)
	}
	sort.Strings(deps)
	return deps
}

// relativePath renders p relative to the working directory when possible.
func relativePath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return p
	}
	return rel
}
