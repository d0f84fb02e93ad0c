package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/showcase/internal/format"
)

// ErrInvalidValue is returned by "showcase format" when the value fails
// validation. The command has already printed the reason.
var ErrInvalidValue = errors.New("invalid value")

func newFormatCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "format <type> <value>",
		Short: "Format and validate one value with a chameleon preset",
		Example: `  showcase format phone 5551234567
  showcase format currency 1234.5 --json`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return format.DefaultCatalog().IDs(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := format.DefaultCatalog().Lookup(args[0])
			if err != nil {
				return err
			}
			res := preset.Apply(args[1])

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "display: %s\n", res.Display)
				fmt.Fprintf(out, "raw:     %s\n", res.Raw)
				if res.Valid {
					fmt.Fprintln(out, "valid:   yes")
				} else {
					fmt.Fprintf(out, "valid:   no (%s)\n", res.Error)
				}
			}

			if !res.Valid {
				return ErrInvalidValue
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the chameleon presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tPLACEHOLDER")
			for _, p := range format.DefaultCatalog().Presets() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Placeholder)
			}
			return w.Flush()
		},
	}
}
