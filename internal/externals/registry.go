package externals

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// PackageDependency pairs an externalized package with its global name.
type PackageDependency struct {
	PackageID  string `json:"package" yaml:"package"`
	GlobalName string `json:"global" yaml:"global"`
}

// Registry is the ordered set of externalized packages.
type Registry struct {
	ns    Namespace
	deps  []PackageDependency
	index map[string]int
}

// NewRegistry keeps the dependencies under the namespace prefix, in the
// order given. Repeated package ids keep their first position.
func NewRegistry(ns Namespace, deps []Dependency) *Registry {
	r := &Registry{
		ns:    ns,
		index: make(map[string]int),
	}
	for _, dep := range deps {
		if !ns.Owns(dep.Name) {
			continue
		}
		if _, seen := r.index[dep.Name]; seen {
			continue
		}
		r.index[dep.Name] = len(r.deps)
		r.deps = append(r.deps, PackageDependency{
			PackageID:  dep.Name,
			GlobalName: ns.GlobalName(dep.Name),
		})
	}
	return r
}

// LoadRegistry reads package metadata from fs and builds the registry.
// devDependencies are appended after dependencies when includeDev is set.
func LoadRegistry(fs afero.Fs, path string, ns Namespace, includeDev bool) (*Registry, error) {
	pkg, err := LoadPackageJSON(fs, path)
	if err != nil {
		return nil, err
	}

	deps := pkg.Dependencies
	if includeDev {
		deps = append(append([]Dependency{}, deps...), pkg.DevDependencies...)
	}

	r := NewRegistry(ns, deps)
	log.Debug().
		Str("package_json", path).
		Int("declared", len(deps)).
		Int("externals", r.Len()).
		Msg("Resolved externalized packages")
	return r, nil
}

// Namespace returns the namespace the registry was built with.
func (r *Registry) Namespace() Namespace {
	return r.ns
}

// Dependencies returns the externalized packages in declaration order.
func (r *Registry) Dependencies() []PackageDependency {
	out := make([]PackageDependency, len(r.deps))
	copy(out, r.deps)
	return out
}

// Lookup finds the entry for a package id.
func (r *Registry) Lookup(pkg string) (PackageDependency, bool) {
	i, ok := r.index[pkg]
	if !ok {
		return PackageDependency{}, false
	}
	return r.deps[i], true
}

// Len returns the number of externalized packages.
func (r *Registry) Len() int {
	return len(r.deps)
}
