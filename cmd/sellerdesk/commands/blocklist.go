package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/PabloPavan/sellerdesk/internal/blocklist"
)

func newBlocklistCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocklist",
		Short: "Blocked customer email tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sanitize",
		Short: "Normalize a block list read from stdin",
		Long: `Read a block list from stdin and print it normalized: lowercased, one
address per line, sub-addresses and dots removed from the local part,
duplicates dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			out, ok := blocklist.Sanitize(string(raw))
			if !ok {
				return nil
			}
			return a.print(cmd, blocklist.Lines(out), func() string { return out })
		},
	})
	return cmd
}
