package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/worklens-org/worklens/internal/printer"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the table shapes the pipeline expects and produces",
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	reg := cfg.Registry()

	printer.Printf("Schema version %s, rating scale %g to %g (midpoint %g)\n",
		reg.Version, reg.Scale.Min, reg.Scale.Max, reg.Scale.Midpoint())

	for _, table := range reg.Tables {
		printer.Printf("\n%s\n", strings.ToUpper(table.Name))
		printer.Printf("%s\n", table.Description)
		for _, col := range table.Columns {
			marker := " "
			if col.Required {
				marker = "*"
			}
			label := col.Header
			if label == "" {
				label = col.DisplayName
			}
			printer.Printf("  %s %-20s %-10s %s\n", marker, col.Key, col.Kind, label)
		}
	}

	printer.Printf("\n* required column. Tables join on %q.\n", "task_id")
	return nil
}
