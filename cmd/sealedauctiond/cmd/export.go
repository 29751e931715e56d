package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
)

// ExportCmd prints the application genesis of the last committed state.
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export state to a genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}

			// the indexer is not needed to read state
			cfg.IndexerPath = ""

			n, err := OpenNode(log.NewNopLogger(), cfg)
			if err != nil {
				return err
			}
			defer n.Close()

			return Export(cmd.OutOrStdout(), n)
		},
	}
}

// Export writes the application genesis of n to w.
func Export(w io.Writer, n *Node) error {
	appState, err := n.App.ExportGenesis()
	if err != nil {
		return err
	}

	bz, err := json.MarshalIndent(appState, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(bz))
	return err
}
