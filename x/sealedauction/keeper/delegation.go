package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// DelegateAuction hands the auction created by authority with auctionID over
// to the delegated execution view. The record is committed back only on an
// explicit settlement.
func (k Keeper) DelegateAuction(
	ctx sdk.Context,
	payer, authority types.Address,
	auctionID uint64,
	validator *types.Address,
) (types.Address, error) {
	addr := types.AuctionAddress(authority, auctionID)

	if err := k.checkDelegation(ctx, validator); err != nil {
		return types.ZeroAddress, err
	}

	if _, err := k.GetAuction(ctx, addr); err != nil {
		return types.ZeroAddress, err
	}

	seeds := types.AuctionSeeds(authority, auctionID)
	if err := k.delegate(ctx, payer, addr, seeds, validator); err != nil {
		return types.ZeroAddress, err
	}

	return addr, nil
}

// DelegateBid hands the bid of bidder on auction over to the delegated
// execution view.
func (k Keeper) DelegateBid(
	ctx sdk.Context,
	payer, auctionAddr, bidder types.Address,
	validator *types.Address,
) (types.Address, error) {
	addr := types.BidAddress(auctionAddr, bidder)

	if err := k.checkDelegation(ctx, validator); err != nil {
		return types.ZeroAddress, err
	}

	if _, err := k.GetBid(ctx, addr); err != nil {
		return types.ZeroAddress, err
	}

	seeds := types.BidSeeds(auctionAddr, bidder)
	if err := k.delegate(ctx, payer, addr, seeds, validator); err != nil {
		return types.ZeroAddress, err
	}

	return addr, nil
}

// FinalizeAndSettle commits a finalized auction, and optionally delegated bids
// of that auction, back to the primary ledger and releases their delegation.
// Every handler writes its record as it mutates it, so the view's store already
// holds the final state the coordinator commits. On coordinator failure the
// auction stays finalized and delegated and the call can be retried.
func (k Keeper) FinalizeAndSettle(
	ctx sdk.Context,
	authority, payer, auctionAddr types.Address,
	bidAddrs []types.Address,
) error {
	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return err
	}

	if !auction.Authority.Equals(authority) {
		return types.ErrUnauthorizedAuthority.Wrapf("%s is not the authority of %s", authority, auctionAddr)
	}

	if !auction.IsFinalized() {
		return types.ErrAuctionNotFinalized.Wrapf("auction %s is %s", auctionAddr, auction.Status)
	}

	if k.view != types.ViewDelegated {
		return types.ErrInvalidView.Wrapf("auctions are settled from the delegated view, not the %s view", k.view)
	}

	seen := make(map[types.Address]struct{}, len(bidAddrs))
	for _, bidAddr := range bidAddrs {
		if bidAddr.Equals(auctionAddr) {
			return types.ErrBidAccountMismatch.Wrapf("bid %s is the auction itself", bidAddr)
		}

		if _, ok := seen[bidAddr]; ok {
			return types.ErrBidAccountMismatch.Wrapf("bid %s is listed more than once", bidAddr)
		}
		seen[bidAddr] = struct{}{}

		bid, err := k.GetBid(ctx, bidAddr)
		if err != nil {
			return err
		}

		if !bid.Auction.Equals(auctionAddr) {
			return types.ErrBidAccountMismatch.Wrapf("bid %s references auction %s, not %s", bidAddr, bid.Auction, auctionAddr)
		}
	}

	records := append([]types.Address{auctionAddr}, bidAddrs...)
	if err := k.delegationKeeper.CommitAndUndelegate(ctx, records, payer); err != nil {
		return errorsmod.Wrapf(err, "failed to settle auction %s", auctionAddr)
	}

	winner := ""
	if w, ok := auction.Winner(); ok {
		winner = w.String()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuctionSettled,
			sdk.NewAttribute(types.EventAttrAuction, auctionAddr.String()),
			sdk.NewAttribute(types.EventAttrWinner, winner),
			sdk.NewAttribute(types.EventAttrHighestBid, strconv.FormatUint(auction.HighestBid, 10)),
		),
	)

	k.Logger(ctx).Info("auction settled", "auction", auctionAddr.String(), "bids", len(bidAddrs), "winner", winner)

	return nil
}

func (k Keeper) checkDelegation(ctx sdk.Context, validator *types.Address) error {
	if k.view != types.ViewPrimary {
		return types.ErrInvalidView.Wrapf("records cannot be delegated from the %s view", k.view)
	}

	if validator == nil {
		return nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}

	if !params.ValidatorAllowed(*validator) {
		return types.ErrInvalidValidator.Wrapf("validator %s is not allowed", validator)
	}

	return nil
}

func (k Keeper) delegate(ctx sdk.Context, payer, addr types.Address, seeds [][]byte, validator *types.Address) error {
	cfg := types.NewDelegateConfig(validator)

	if err := k.delegationKeeper.Delegate(ctx, types.ModuleName, addr, seeds, cfg); err != nil {
		return errorsmod.Wrapf(err, "failed to delegate %s", addr)
	}

	validatorAttr := ""
	if validator != nil {
		validatorAttr = validator.String()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRecordDelegated,
			sdk.NewAttribute(types.EventAttrRecord, addr.String()),
			sdk.NewAttribute(types.EventAttrValidator, validatorAttr),
		),
	)

	k.Logger(ctx).Info("record delegated", "record", addr.String(), "payer", payer.String(), "config", cfg.String())

	return nil
}
