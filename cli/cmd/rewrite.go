package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <file>",
	Short: "Print a source file with external imports rewritten",
	Long: `Apply the import rewriting that build performs to a single file and
print the result. Useful to check how an import statement will be handled.

Examples:
  wp-externals rewrite src/edit.js`,
	Args: cobra.ExactArgs(1),
	RunE: runRewrite,
}

func runRewrite(cmd *cobra.Command, args []string) error {
	p, err := newPlugin()
	if err != nil {
		return err
	}

	src, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	out, stats := p.Rewriter().RewriteWithStats(string(src))
	for pkg, n := range stats {
		log.Debug().Str("package", pkg).Int("statements", n).Msg("Rewrote imports")
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
