package types

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"diggercli/digger/internal/dns/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the "types" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List supported DNS record types",
		Long: "List every record type digger can query, with its IANA wire code and\n" +
			"a short description.\n\n" +
			"Examples:\n" +
			"  digger types\n" +
			"  digger types -o json",
		Args:         cobra.ExactArgs(0),
		RunE:         runTypes,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

type typeInfo struct {
	Type        string `json:"type"`
	Code        uint16 `json:"code"`
	Description string `json:"description"`
}

func runTypes(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	switch output {
	case "json":
		infos := make([]typeInfo, 0, len(domain.RecordTypes))
		for _, t := range domain.RecordTypes {
			infos = append(infos, typeInfo{
				Type:        t.String(),
				Code:        t.WireType(),
				Description: t.Description(),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "table":
		printTypesTable(cmd)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (expected table or json)", output)
	}
}

func printTypesTable(cmd *cobra.Command) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCODE\tDESCRIPTION")
	fmt.Fprintln(w, "----\t----\t-----------")
	for _, t := range domain.RecordTypes {
		fmt.Fprintf(w, "%s\t%d\t%s\n", t, t.WireType(), t.Description())
	}
	w.Flush()
}
