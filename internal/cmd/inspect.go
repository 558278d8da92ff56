package cmd

import (
	"fmt"

	"github.com/dendrascience/pbix-converter/archive"
	"github.com/dendrascience/pbix-converter/converter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newInspectCmd creates the inspect subcommand, a dry run that lists a
// package's members and what a conversion would change in its layout.
func newInspectCmd(a *app) *cobra.Command {
	var rules string

	cmd := &cobra.Command{
		Use:   "inspect INPUT",
		Short: "Show what a conversion would change without writing anything",
		Long: `Inspect lists the members of a .pbix package and reports how many visual
containers a conversion would touch, whether SecurityBindings is present,
and whether the layout carries a byte order mark. Nothing is extracted
to disk and no output is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := converter.ValidateInput(input); err != nil {
				return err
			}
			r, err := loadRules(rules)
			if err != nil {
				return err
			}
			in, err := converter.Inspect(input, r)
			if err != nil {
				return err
			}
			a.log.Debug("inspected package", zap.String("input", input), zap.Int("members", len(in.Members)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Members (%d):\n", len(in.Members))
			for _, m := range in.Members {
				fmt.Fprintf(out, "  %s\n", m)
			}
			fmt.Fprintf(out, "%s: %s\n", archive.SecurityBindings, presence(in.SecurityBindings))
			fmt.Fprintf(out, "Layout byte order mark: %s\n", presence(in.LayoutBOM))
			fmt.Fprintf(out, "Visual containers: %d\n", in.Layout.Containers)
			fmt.Fprintf(out, "  would convert: %d\n", in.Layout.Converted)
			fmt.Fprintf(out, "  projection renames: %d\n", in.Layout.Renamed)
			fmt.Fprintf(out, "  duplicated projections: %d\n", in.Layout.Duplicated)
			fmt.Fprintf(out, "  unparseable configs: %d\n", in.Layout.Opaque)
			if in.Layout.Registered {
				fmt.Fprintln(out, "Would register the replacement visual in publicCustomVisuals")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rules, "rules", "", "YAML rules profile overriding the default conversion")

	return cmd
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
