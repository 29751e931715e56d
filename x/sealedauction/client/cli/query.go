package cli

import (
	"crypto/rand"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// GetQueryCmd returns the cli query commands for the sealedauction module.
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryAuction(),
		CmdQueryAuctions(),
		CmdQueryBid(),
		CmdQueryBids(),
		CmdAuctionAddress(),
		CmdBidAddress(),
		CmdBidHash(),
	)

	return cmd
}

// CmdQueryParams implements a command that will return the current parameters of the sealedauction module.
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current parameters of the sealedauction module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return queryPath(cmd, "params", &types.QueryParamsResponse{})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

// CmdQueryAuction implements a command that returns an auction with its phase.
func CmdQueryAuction() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction [address]",
		Short: "Query an auction by address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryPath(cmd, "auctions/"+args[0], &types.QueryAuctionResponse{})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdQueryAuctions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auctions",
		Short: "Query every auction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return queryPath(cmd, "auctions", &types.QueryAuctionsResponse{})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdQueryBid() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid [auction] [bidder]",
		Short: "Query the bid of a bidder on an auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryPath(cmd, "auctions/"+args[0]+"/bids/"+args[1], &types.QueryBidResponse{})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

func CmdQueryBids() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bids [auction]",
		Short: "Query every bid placed on an auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return queryPath(cmd, "auctions/"+args[0]+"/bids", &types.QueryBidsByAuctionResponse{})
		},
	}

	AddNodeFlags(cmd)

	return cmd
}

// CmdAuctionAddress derives the address of an auction locally.
func CmdAuctionAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "auction-address [authority] [auction-id]",
		Short: "Derive the address of the auction an authority creates with the given id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			authority, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}

			id, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return err
			}

			return printJSON(cmd, types.QueryAddressResponse{Address: types.AuctionAddress(authority, id)})
		},
	}
}

// CmdBidAddress derives the address of a bid locally.
func CmdBidAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "bid-address [auction] [bidder]",
		Short: "Derive the address of the bid a bidder places on an auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			auction, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}

			bidder, err := types.ParseAddress(args[1])
			if err != nil {
				return err
			}

			return printJSON(cmd, types.QueryAddressResponse{Address: types.BidAddress(auction, bidder)})
		},
	}
}

// BidCommitment is the output of the hash command. The nonce must be kept
// secret until the bid is revealed.
type BidCommitment struct {
	Amount  uint64      `json:"amount"`
	Nonce   types.Nonce `json:"nonce"`
	BidHash types.Hash  `json:"bid_hash"`
}

// CmdBidHash computes a bid commitment locally. A fresh nonce is drawn unless
// one is given.
func CmdBidHash() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [amount] [auction] [bidder]",
		Short: "Compute the sealed commitment of a bid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}

			auction, err := types.ParseAddress(args[1])
			if err != nil {
				return err
			}

			bidder, err := types.ParseAddress(args[2])
			if err != nil {
				return err
			}

			nonceHex, err := cmd.Flags().GetString(FlagNonce)
			if err != nil {
				return err
			}

			var nonce types.Nonce
			if nonceHex == "" {
				nonce, err = types.NewNonce(rand.Reader)
			} else {
				nonce, err = types.ParseNonce(nonceHex)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, BidCommitment{
				Amount:  amount,
				Nonce:   nonce,
				BidHash: types.ComputeBidHash(amount, nonce, bidder, auction),
			})
		},
	}

	cmd.Flags().String(FlagNonce, "", "hex encoded 32 byte nonce (random when empty)")

	return cmd
}

func queryPath(cmd *cobra.Command, path string, out any) error {
	client, view, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}

	if err := client.Get(cmd.Context(), view.String()+"/"+path, nil, out); err != nil {
		return err
	}

	return printJSON(cmd, out)
}

func validateCmd(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}

	return cmd.Help()
}
