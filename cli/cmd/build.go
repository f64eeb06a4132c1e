package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluxbase-eu/wp-externals/cli/bundler"
	"github.com/fluxbase-eu/wp-externals/internal/plugin"
)

var buildNoManifest bool

var buildCmd = &cobra.Command{
	Use:   "build [entries...]",
	Short: "Bundle entries and write asset manifests",
	Long: `Bundle the given entry points (or build.entries from the config) with
esbuild. Imports of externalized packages are rewritten into global lookups
before bundling, and an .asset.php manifest is written next to every entry
bundle.

Entries may be glob patterns; ** matches any number of directories.

Examples:
  wp-externals build
  wp-externals build "src/blocks/**/index.js" --outdir build
  wp-externals build src/index.js --minify --no-manifest`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("outdir", "", "output directory (default dist)")
	buildCmd.Flags().String("format", "", "bundle format: iife, esm, cjs (default iife)")
	buildCmd.Flags().String("target", "", "language target, e.g. es2019")
	buildCmd.Flags().Bool("minify", false, "minify output")
	buildCmd.Flags().Bool("sourcemap", false, "write linked source maps")
	buildCmd.Flags().String("manifest-format", "", "manifest format: php, json (default php)")
	buildCmd.Flags().String("hash", "", "version hash: md5, xxhash (default md5)")
	buildCmd.Flags().BoolVar(&buildNoManifest, "no-manifest", false, "skip asset manifest generation")

	_ = v.BindPFlag("build.out_dir", buildCmd.Flags().Lookup("outdir"))
	_ = v.BindPFlag("build.format", buildCmd.Flags().Lookup("format"))
	_ = v.BindPFlag("build.target", buildCmd.Flags().Lookup("target"))
	_ = v.BindPFlag("build.minify", buildCmd.Flags().Lookup("minify"))
	_ = v.BindPFlag("build.sourcemap", buildCmd.Flags().Lookup("sourcemap"))
	_ = v.BindPFlag("manifest.format", buildCmd.Flags().Lookup("manifest-format"))
	_ = v.BindPFlag("manifest.hash", buildCmd.Flags().Lookup("hash"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	entries := cfg.Build.Entries
	if len(args) > 0 {
		entries = args
	}
	if buildNoManifest {
		cfg.Manifest.Enabled = false
	}

	opts := cfg.PluginOptions()
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	opts.OutDir = outDir

	p, err := plugin.New(fs, opts)
	if err != nil {
		return err
	}

	root := cfg.Namespace.GlobalRoot
	b, err := bundler.NewBundler(fs, p, bundler.Options{
		Entries:     entries,
		Format:      cfg.Build.Format,
		Target:      cfg.Build.Target,
		Minify:      cfg.Build.Minify,
		Sourcemap:   cfg.Build.Sourcemap,
		JSXFactory:  root + ".element.createElement",
		JSXFragment: root + ".element.Fragment",
	})
	if err != nil {
		return err
	}

	report, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}

	log.Debug().
		Int("outputs", len(report.Outputs)).
		Int("manifests", len(report.Manifests)).
		Msg("Build finished")

	if formatter.Structured() {
		return formatter.Print(report)
	}
	if !quiet {
		bundler.DisplayReport(cmd.OutOrStdout(), report)
	}
	return nil
}
