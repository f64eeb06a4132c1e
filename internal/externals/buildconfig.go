package externals

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// GlobalsNamespace is the esbuild namespace that serves externalized
// packages as references to their globals.
const GlobalsNamespace = "wp-externals-global"

// BuildConfig is what the bundler needs to know about externals.
type BuildConfig struct {
	// External lists package ids the bundler must not bundle.
	External []string `json:"external" yaml:"external"`
	// Globals maps package ids to the global that replaces them at runtime.
	Globals map[string]string `json:"globals" yaml:"globals"`
}

// NewBuildConfig projects the registry into bundler configuration.
func NewBuildConfig(reg *Registry) BuildConfig {
	ns := reg.Namespace()
	cfg := BuildConfig{Globals: make(map[string]string, reg.Len())}
	for _, dep := range reg.Dependencies() {
		if !strings.Contains(dep.PackageID, ns.ExperimentalMarker) {
			cfg.External = append(cfg.External, dep.PackageID)
		}
		cfg.Globals[dep.PackageID] = dep.GlobalName
	}
	return cfg
}

// Apply merges the external list into esbuild options.
func (c BuildConfig) Apply(opts *api.BuildOptions) {
	seen := make(map[string]bool, len(opts.External))
	for _, ext := range opts.External {
		seen[ext] = true
	}
	for _, ext := range c.External {
		if !seen[ext] {
			opts.External = append(opts.External, ext)
			seen[ext] = true
		}
	}
}

// GlobalsPlugin resolves imports of the externalized packages to modules
// that export the corresponding global, the way rollup's output.globals does
// for non-ESM formats. Imports that survive rewriting (experimental symbols)
// end up here. Packages left out of External are not matched and go through
// normal resolution. The shim takes precedence over esbuild's own External
// handling, so Apply only matters for builds that do not register it.
func (c BuildConfig) GlobalsPlugin() api.Plugin {
	return api.Plugin{
		Name: "wp-externals-globals",
		Setup: func(build api.PluginBuild) {
			ids := make([]string, 0, len(c.External))
			for _, pkg := range c.External {
				if _, ok := c.Globals[pkg]; ok {
					ids = append(ids, regexp.QuoteMeta(pkg))
				}
			}
			if len(ids) == 0 {
				return
			}
			sort.Strings(ids)
			filter := `^(?:` + strings.Join(ids, "|") + `)$`

			build.OnResolve(api.OnResolveOptions{Filter: filter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      args.Path,
						Namespace: GlobalsNamespace,
					}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: GlobalsNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					global, ok := c.Globals[args.Path]
					if !ok {
						return api.OnLoadResult{}, fmt.Errorf("no global registered for %s", args.Path)
					}
					contents := fmt.Sprintf("module.exports = %s;", global)
					return api.OnLoadResult{
						Contents: &contents,
						Loader:   api.LoaderJS,
					}, nil
				})
		},
	}
}
