package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// InitGenesis initializes the sealedauction module's state from a given
// genesis state. Records are written to the view the keeper is bound to.
func (k Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	if err := gs.Validate(); err != nil {
		panic(err)
	}

	// Set the sealedauction module's parameters.
	if err := k.SetParams(ctx, gs.Params); err != nil {
		panic(err)
	}

	for _, rec := range gs.Auctions {
		k.SetAuction(ctx, rec.Address, rec.Auction)
	}

	for _, rec := range gs.Bids {
		k.SetBid(ctx, rec.Address, rec.Bid)
	}
}

// ExportGenesis returns a GenesisState for a given context.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	// Get the sealedauction module's parameters.
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(err)
	}

	auctions, err := k.GetAuctions(ctx)
	if err != nil {
		panic(err)
	}

	bids, err := k.GetBids(ctx)
	if err != nil {
		panic(err)
	}

	return types.NewGenesisState(params, auctions, bids)
}
