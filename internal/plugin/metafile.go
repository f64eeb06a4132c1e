package plugin

// Metafile is the subset of the esbuild metafile used to classify outputs.
type Metafile struct {
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileOutput represents an output file in the metafile
type MetafileOutput struct {
	EntryPoint string `json:"entryPoint,omitempty"`
}
