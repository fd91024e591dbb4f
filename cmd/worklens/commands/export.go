package commands

import (
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full annotated table",
	Long: `Export every derived column for every task, in source order. CSV keeps
sentinel cells empty; JSON renders them as null.`,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFormat, "format", "csv", "Output format: csv or json")
	f.StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	view, err := buildView(cmd.Context())
	if err != nil {
		return err
	}
	return writeView(view, exportFormat, exportOut)
}
