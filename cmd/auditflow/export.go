package main

import (
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a saved audit report",
		Long: `Export writes a saved report in the requested format.
Without an ID the most recent report is exported. A unique prefix of the ID
is accepted.

When --output is omitted, text formats are written to stdout and PDF is saved
as audit-<id>.pdf in the current directory.

Examples:
  # Export the latest report as PDF
  auditflow export -F pdf

  # Export a specific report as HTML into a directory
  auditflow export 3f2a9c1e -F html -o reports/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "F", "",
		"Report format: text, json, markdown, csv, html, pdf, comma-separated for several (default from config)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to the given file, or into the given directory when it ends with /")
	cmd.Flags().String("title", "",
		"Document title for HTML and PDF reports")
	addStorageFlags(cmd)

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, _, history, closeStore, err := historyContext(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	entry, err := findEntry(history, ref)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if cfg.Overrides.Format, err = flags.GetString("format"); err != nil {
		return err
	}
	if cfg.Overrides.Output, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.Overrides.Title, err = flags.GetString("title"); err != nil {
		return err
	}

	paths, err := writeReport(cmd.OutOrStdout(), entry, cfg.SiteFor(entry.URL))
	if err != nil {
		return err
	}
	printSaved(cmd.ErrOrStderr(), paths)
	return nil
}
