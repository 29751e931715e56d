package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// NewTxCmd returns the cli transaction commands for the sealedauction module.
func NewTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.AddCommand(
		CmdCreateAuction(),
		CmdInitializeBid(),
		CmdSubmitSealedBid(),
		CmdSubmitSealedBidDelegated(),
		CmdRevealBid(),
		CmdFinalizeAuction(),
		CmdCreateAuctionPermission(),
		CmdCreateBidPermission(),
		CmdDelegateAuction(),
		CmdDelegateBid(),
		CmdFinalizeAndSettle(),
		CmdUpdateParams(),
	)

	return cmd
}

// CmdCreateAuction opens an auction with the given windows (unix seconds).
func CmdCreateAuction() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-auction [authority] [auction-id] [start-ts] [end-ts] [reveal-end-ts] [reserve-price]",
		Short: "Open a sealed bid auction",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseUints(args[1:])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgCreateAuction{
				Authority:    args[0],
				AuctionID:    nums[0],
				StartTs:      int64(nums[1]),
				EndTs:        int64(nums[2]),
				RevealEndTs:  int64(nums[3]),
				ReservePrice: nums[4],
			})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdInitializeBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize-bid [auction] [bidder]",
		Short: "Provision an empty bid so it can be delegated before commitment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return broadcast(cmd, &types.MsgInitializeBid{Auction: args[0], Bidder: args[1]})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdSubmitSealedBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-sealed-bid [auction] [bidder] [bid-hash]",
		Short: "Create and commit a bid in one step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := types.ParseHash(args[2])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgSubmitSealedBid{Auction: args[0], Bidder: args[1], BidHash: hash})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdSubmitSealedBidDelegated() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-sealed-bid-delegated [auction] [bidder] [bid-hash]",
		Short: "Commit a previously initialized bid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := types.ParseHash(args[2])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgSubmitSealedBidDelegated{Auction: args[0], Bidder: args[1], BidHash: hash})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdRevealBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal-bid [auction] [bidder] [amount] [nonce]",
		Short: "Reveal the amount and nonce behind a committed bid",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}

			nonce, err := types.ParseNonce(args[3])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgRevealBid{Auction: args[0], Bidder: args[1], Amount: amount, Nonce: nonce})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdFinalizeAuction() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize-auction [authority] [auction]",
		Short: "Close an auction once its reveal window has ended",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return broadcast(cmd, &types.MsgFinalizeAuction{Authority: args[0], Auction: args[1]})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

// CmdCreateAuctionPermission registers the auction authority with the
// permission service. The permission address is derived unless --permission
// is set.
func CmdCreateAuctionPermission() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-auction-permission [auction] [payer]",
		Short: "Register the auction authority as controller of the auction record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			permission, err := permissionFor(cmd, args[0])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgCreateAuctionPermission{Auction: args[0], Permission: permission, Payer: args[1]})
		},
	}

	AddNodeFlags(cmd)
	cmd.Flags().String(FlagPermission, "", "permission address (derived from the record when empty)")

	return cmd
}

func CmdCreateBidPermission() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-bid-permission [bid] [payer]",
		Short: "Register the bidder as controller of the bid record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			permission, err := permissionFor(cmd, args[0])
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgCreateBidPermission{Bid: args[0], Permission: permission, Payer: args[1]})
		},
	}

	AddNodeFlags(cmd)
	cmd.Flags().String(FlagPermission, "", "permission address (derived from the record when empty)")

	return cmd
}

func CmdDelegateAuction() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delegate-auction [payer] [authority] [auction-id]",
		Short: "Hand an auction record to the delegated execution view",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}

			validator, err := cmd.Flags().GetString(FlagValidator)
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgDelegateAuction{
				Payer:     args[0],
				Authority: args[1],
				AuctionID: id,
				Validator: validator,
			})
		},
	}

	AddNodeFlags(cmd)
	cmd.Flags().String(FlagValidator, "", "validator the record is pinned to")

	return cmd
}

func CmdDelegateBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delegate-bid [payer] [auction] [bidder]",
		Short: "Hand a bid record to the delegated execution view",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := cmd.Flags().GetString(FlagValidator)
			if err != nil {
				return err
			}

			return broadcast(cmd, &types.MsgDelegateBid{
				Payer:     args[0],
				Auction:   args[1],
				Bidder:    args[2],
				Validator: validator,
			})
		},
	}

	AddNodeFlags(cmd)
	cmd.Flags().String(FlagValidator, "", "validator the record is pinned to")

	return cmd
}

// CmdFinalizeAndSettle commits a finalized auction back to the primary ledger
// together with any listed bid records. It always targets the delegated view
// unless --view is set explicitly.
func CmdFinalizeAndSettle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize-and-settle [authority] [payer] [auction] [bid]...",
		Short: "Settle a finalized delegated auction and release its delegation",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return broadcast(cmd, &types.MsgFinalizeAndSettle{
				Authority: args[0],
				Payer:     args[1],
				Auction:   args[2],
				Bids:      args[3:],
			})
		},
	}

	AddNodeFlags(cmd)
	_ = cmd.Flags().Set(FlagView, types.ViewDelegated.String())
	cmd.Flags().Lookup(FlagView).DefValue = types.ViewDelegated.String()

	return cmd
}

func CmdUpdateParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-params [authority]",
		Short: "Replace the module parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cmd.Flags().GetStringSlice(FlagValidators)
			if err != nil {
				return err
			}

			validators := make([]types.Address, 0, len(raw))
			for _, v := range raw {
				addr, err := types.ParseAddress(strings.TrimSpace(v))
				if err != nil {
					return err
				}

				validators = append(validators, addr)
			}

			return broadcast(cmd, &types.MsgUpdateParams{Authority: args[0], Params: types.NewParams(validators)})
		},
	}

	AddNodeFlags(cmd)
	cmd.Flags().StringSlice(FlagValidators, nil, "comma separated validators records may be pinned to")

	return cmd
}

func broadcast(cmd *cobra.Command, msg types.Msg) error {
	client, view, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}

	res, err := client.Broadcast(cmd.Context(), view, msg)
	if err != nil {
		return err
	}

	return printJSON(cmd, res)
}

func permissionFor(cmd *cobra.Command, record string) (string, error) {
	permission, err := cmd.Flags().GetString(FlagPermission)
	if err != nil || permission != "" {
		return permission, err
	}

	addr, err := types.ParseAddress(record)
	if err != nil {
		return "", err
	}

	return types.PermissionAddress(addr).String(), nil
}

func parseUints(args []string) ([]uint64, error) {
	out := make([]uint64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}

		out[i] = v
	}

	return out, nil
}
