package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fluxbase-eu/wp-externals/cli/output"
)

var externalsCmd = &cobra.Command{
	Use:     "externals",
	Aliases: []string{"ext", "deps"},
	Short:   "List packages provided by the host as globals",
	Long: `List the dependencies of package.json that are externalized, together
with the global they are read from and the runtime handle they map to.

Examples:
  wp-externals externals
  wp-externals externals -o json`,
	RunE: runExternals,
}

func runExternals(cmd *cobra.Command, args []string) error {
	p, err := newPlugin()
	if err != nil {
		return err
	}

	data := output.TableData{
		Headers: []string{"PACKAGE", "GLOBAL", "HANDLE", "EXTERNAL"},
	}
	external := make(map[string]bool)
	for _, pkg := range p.Config().External {
		external[pkg] = true
	}

	for _, dep := range p.Registry().Dependencies() {
		isExternal := "no"
		if external[dep.PackageID] {
			isExternal = "yes"
		}
		data.Rows = append(data.Rows, []string{dep.PackageID, dep.GlobalName, p.Handle(dep.GlobalName), isExternal})
	}

	return formatter.PrintTable(data)
}
