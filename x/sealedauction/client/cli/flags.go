package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skip-mev/sealed-auction/x/sealedauction/client/rest"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

const (
	FlagNode       = "node"
	FlagView       = "view"
	FlagValidator  = "validator"
	FlagPermission = "permission"
	FlagNonce      = "nonce"
	FlagValidators = "allowed-validators"

	DefaultNode = "http://localhost:1317"
)

// AddNodeFlags adds the flags every command talking to a node needs.
func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagNode, DefaultNode, "HTTP address of the node")
	cmd.Flags().String(FlagView, types.ViewPrimary.String(), "execution view to use (primary|delegated)")
}

func clientFromCmd(cmd *cobra.Command) (*rest.Client, types.ExecutionView, error) {
	node, err := cmd.Flags().GetString(FlagNode)
	if err != nil {
		return nil, 0, err
	}

	v, err := cmd.Flags().GetString(FlagView)
	if err != nil {
		return nil, 0, err
	}

	view, err := types.ParseExecutionView(v)
	if err != nil {
		return nil, 0, err
	}

	return rest.NewClient(node, nil), view, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
