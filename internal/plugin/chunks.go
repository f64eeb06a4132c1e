package plugin

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/fluxbase-eu/wp-externals/internal/manifest"
)

var codeExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
}

// ChunksFromResult converts an esbuild result into manifest chunks. The
// result must have been built with Metafile enabled. workDir is the build's
// AbsWorkingDir, against which metafile paths are relative; chunk file
// names are made relative to outDir.
func ChunksFromResult(result api.BuildResult, workDir, outDir string) ([]manifest.Chunk, error) {
	var meta Metafile
	if result.Metafile != "" {
		if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
			return nil, fmt.Errorf("failed to parse metafile: %w", err)
		}
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	entries := make(map[string]bool)
	for outPath, out := range meta.Outputs {
		if out.EntryPoint == "" {
			continue
		}
		p := outPath
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		entries[filepath.Clean(p)] = true
	}

	chunks := make([]manifest.Chunk, 0, len(result.OutputFiles))
	for _, file := range result.OutputFiles {
		rel, err := filepath.Rel(absOut, file.Path)
		if err != nil {
			return nil, fmt.Errorf("output %s is outside %s: %w", file.Path, absOut, err)
		}

		kind := manifest.KindAsset
		if codeExtensions[filepath.Ext(file.Path)] {
			kind = manifest.KindChunk
		}

		chunks = append(chunks, manifest.Chunk{
			FileName: filepath.ToSlash(rel),
			Code:     string(file.Contents),
			IsEntry:  entries[filepath.Clean(file.Path)],
			Kind:     kind,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].FileName < chunks[j].FileName
	})
	return chunks, nil
}
