package externals

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Dependency is one entry of a package.json dependency map.
type Dependency struct {
	Name    string
	Version string
}

// PackageJSON holds the parts of package.json the registry needs.
// Dependency maps keep their declaration order.
type PackageJSON struct {
	Name            string
	Dependencies    []Dependency
	DevDependencies []Dependency
}

// LoadPackageJSON reads and parses the package metadata at path.
func LoadPackageJSON(fs afero.Fs, path string) (*PackageJSON, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read package metadata %s: %w", path, err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package metadata %s: %w", path, err)
	}
	return &pkg, nil
}

// UnmarshalJSON decodes package.json token by token so that dependency
// order survives; a plain map would lose it.
func (p *PackageJSON) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("package metadata must be a JSON object: %w", err)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		switch key {
		case "name":
			if err := dec.Decode(&p.Name); err != nil {
				return fmt.Errorf("invalid name: %w", err)
			}
		case "dependencies":
			if p.Dependencies, err = decodeDependencies(dec); err != nil {
				return fmt.Errorf("invalid dependencies: %w", err)
			}
		case "devDependencies":
			if p.DevDependencies, err = decodeDependencies(dec); err != nil {
				return fmt.Errorf("invalid devDependencies: %w", err)
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}

	return expectDelim(dec, '}')
}

func decodeDependencies(dec *json.Decoder) ([]Dependency, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var deps []Dependency
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var version string
		if err := dec.Decode(&version); err != nil {
			return nil, fmt.Errorf("version of %s: %w", name, err)
		}
		deps = append(deps, Dependency{Name: name, Version: version})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return deps, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
