package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/auditflow/internal/share"
)

// NewShareCmd creates the share command.
func NewShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share [id]",
		Short: "Print the share link of a saved audit report",
		Long: `Share prints the link under which a saved report can be shared, followed by
its shortened preview. Without an ID the most recent report is used.

The link embeds the audited URL, so anyone opening it regenerates the same
report. Use --resolve to recover the URL from a link.

Examples:
  # Link for the latest report
  auditflow share

  # Recover the audited URL from a link
  auditflow share --resolve https://auditflow.app/report/aHR0cHM6Ly9leGFtcGxlLmNvbQ`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShareCmd,
	}

	cmd.Flags().String("base-url", "",
		"Host used for the link (default from config, then "+share.DefaultBaseURL+")")
	cmd.Flags().String("resolve", "",
		"Print the audited URL encoded in the given share link")
	addStorageFlags(cmd)

	return cmd
}

// runShareCmd executes the share command.
func runShareCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	link, err := cmd.Flags().GetString("resolve")
	if err != nil {
		return err
	}
	if link != "" {
		target, err := share.Resolve(link)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, target)
		return nil
	}

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

	base := cfg.ShareBaseURL
	if cmd.Flags().Changed("base-url") {
		if base, err = cmd.Flags().GetString("base-url"); err != nil {
			return err
		}
	}

	shareLink := share.Link(base, entry)
	fmt.Fprintln(out, shareLink)
	fmt.Fprintf(cmd.ErrOrStderr(), "Preview: %s\n", share.Preview(shareLink))
	return nil
}
