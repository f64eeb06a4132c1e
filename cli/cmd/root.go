// Package cmd provides the Cobra commands for the wp-externals CLI.
package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fluxbase-eu/wp-externals/cli/output"
	"github.com/fluxbase-eu/wp-externals/internal/config"
	"github.com/fluxbase-eu/wp-externals/internal/plugin"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	cfgFile   string
	outputFmt string
	noHeaders bool
	quiet     bool
	debug     bool

	// Shared across commands
	v         = viper.New()
	fs        = afero.NewOsFs()
	cfg       *config.Config
	formatter *output.Formatter
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wp-externals",
	Short: "Bundle block code against the host's global framework packages",
	Long: `wp-externals bundles component code that imports @wordpress/* packages
with ordinary import syntax, rewriting those imports into lookups on the
global wp object and writing an .asset.php manifest per entry so the host
can enqueue the right script handles.

Get started:
  wp-externals externals          List packages provided by the host
  wp-externals build              Bundle entries and write manifests`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = quiet
		return initialize(cmd)
	},
}

// ExecuteContext runs the CLI; ctx cancels an in-flight build.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./wp-externals.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false,
		"hide table headers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug output")
	rootCmd.PersistentFlags().String("package-json", "",
		"package metadata to read dependencies from (default ./package.json)")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("package_json", rootCmd.PersistentFlags().Lookup("package-json"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(externalsCmd)
	rootCmd.AddCommand(rewriteCmd)
}

// initialize loads configuration and sets up logging and output.
func initialize(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	switch {
	case cfg.Debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	format, err := output.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	formatter = output.NewFormatter(format, noHeaders, quiet, cmd.OutOrStdout())

	log.Debug().Str("package_json", cfg.PackageJSON).Msg("Configuration loaded")
	return nil
}

// newPlugin creates the externals plugin from the loaded configuration.
func newPlugin() (*plugin.Plugin, error) {
	return plugin.New(fs, cfg.PluginOptions())
}
