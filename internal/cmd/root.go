package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dendrascience/pbix-converter/archive"
	"github.com/dendrascience/pbix-converter/converter"
	"github.com/dendrascience/pbix-converter/layout"
	"github.com/dendrascience/pbix-converter/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// appName is the binary name used in usage and version output.
const appName = "pbixconv"

// app carries state shared by the root command and its subcommands.
type app struct {
	verbose bool
	log     *zap.Logger
}

// NewRootCmd creates and returns the root cobra command for the pbixconv CLI.
// The root command converts a package; subcommands inspect packages and
// report the build version.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	var (
		extract bool
		rules   string
		workdir string
		level   int
	)

	rootCmd := &cobra.Command{
		Use:   appName + " INPUT [OUTPUT]",
		Short: "Convert Power BI table and matrix visuals to Inforiver",
		Long: `pbixconv rewrites a Power BI report package (.pbix) so that its table and
matrix visuals become Inforiver custom visuals.

INPUT is the .pbix file to convert. OUTPUT defaults to INPUT_converted.pbix
next to the input, or INPUT_extracted when --extract is given.

The conversion extracts the package into a private workspace, removes the
SecurityBindings member, rewrites Report/Layout, and packs the result into
a new archive. The input file is never modified.`,
		Version:      version.GetFullVersion(),
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
			a.log.Debug("starting "+appName, zap.String("version", version.GetVersion()))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := converter.ValidateInput(input); err != nil {
				return err
			}
			output := converter.DefaultOutputPath(input, extract)
			if len(args) == 2 {
				output = args[1]
			}
			if extract {
				n, err := converter.ExtractOnly(input, output, a.log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d files to %s\n", n, output)
				return nil
			}

			r, err := loadRules(rules)
			if err != nil {
				return err
			}
			w := archive.DefaultWriterConfig()
			w.Level = level
			if err := w.Validate(); err != nil {
				return err
			}
			res, err := converter.Convert(cmd.Context(), converter.Options{
				Input:   input,
				Output:  output,
				TempDir: workdir,
				Rules:   &r,
				Writer:  &w,
				Logger:  a.log,
			})
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&extract, "extract", "e", false, "Only extract the package contents without converting")
	rootCmd.Flags().StringVar(&rules, "rules", "", "YAML rules profile overriding the default conversion")
	rootCmd.Flags().StringVar(&workdir, "workdir", "", "Parent directory for the staging workspace (default: system temp dir)")
	rootCmd.Flags().IntVar(&level, "level", archive.DefaultWriterConfig().Level, "Deflate compression level (-2 to 9)")

	rootCmd.AddCommand(newInspectCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func loadRules(path string) (layout.Rules, error) {
	if path == "" {
		return layout.DefaultRules(), nil
	}
	return layout.LoadRules(filepath.Clean(path))
}

func printResult(cmd *cobra.Command, res converter.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d of %d visual containers\n", res.Layout.Converted, res.Layout.Containers)
	if res.SecurityBindingsRemoved {
		fmt.Fprintf(out, "Removed %s\n", archive.SecurityBindings)
	}
	if res.Layout.Opaque > 0 {
		fmt.Fprintf(out, "Left %d unparseable visual configs unchanged\n", res.Layout.Opaque)
	}
	fmt.Fprintf(out, "Wrote %s (%d members)\n", res.Output, res.Members)
}
