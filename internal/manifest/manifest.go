// Package manifest derives per-entry dependency manifests from finished
// bundles so the host's script loader can enqueue the right handles.
package manifest

// ChunkKind separates executable chunks from other emitted assets.
type ChunkKind int

const (
	KindChunk ChunkKind = iota
	KindAsset
)

func (k ChunkKind) String() string {
	if k == KindChunk {
		return "chunk"
	}
	return "asset"
}

// Chunk is one emitted output artifact, as reported by the bundler.
type Chunk struct {
	FileName string // relative to the output directory
	Code     string
	IsEntry  bool
	Kind     ChunkKind
}

// Record is the content of one manifest file.
type Record struct {
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Version      string   `json:"version" yaml:"version"`
}

// Written describes a manifest that was persisted.
type Written struct {
	Chunk  string `json:"chunk" yaml:"chunk"`
	Path   string `json:"path" yaml:"path"`
	Record Record `json:"record" yaml:"record"`
}
