package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format is the serialization of a manifest file.
type Format string

const (
	// FormatPHP writes a PHP file returning an array, read by the host with include.
	FormatPHP  Format = "php"
	FormatJSON Format = "json"
)

// ParseFormat parses a manifest format name; empty means php.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "php":
		return FormatPHP, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid manifest format: %s (valid: php, json)", s)
	}
}

// Extension is the suffix that replaces the code extension.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".asset.json"
	}
	return ".asset.php"
}

// Serialize renders rec in format f.
func Serialize(f Format, rec Record) ([]byte, error) {
	if rec.Dependencies == nil {
		rec.Dependencies = []string{}
	}

	switch f {
	case FormatPHP, "":
		return []byte(renderPHP(rec)), nil
	case FormatJSON:
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", f)
	}
}

func renderPHP(rec Record) string {
	quoted := make([]string, len(rec.Dependencies))
	for i, dep := range rec.Dependencies {
		quoted[i] = phpString(dep)
	}

	var b strings.Builder
	b.WriteString("<?php return [\n")
	fmt.Fprintf(&b, "  'dependencies' => [%s],\n", strings.Join(quoted, ", "))
	fmt.Fprintf(&b, "  'version' => %s,\n", phpString(rec.Version))
	b.WriteString("];\n")
	return b.String()
}

var phpEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// phpString quotes s as a single-quoted PHP literal.
func phpString(s string) string {
	return "'" + phpEscaper.Replace(s) + "'"
}
