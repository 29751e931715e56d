package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// InitializeBid provisions an empty bid for (auction, bidder). A provisioned
// bid can be delegated and committed later from the delegated view, where new
// records cannot be created.
func (k Keeper) InitializeBid(ctx sdk.Context, auctionAddr, bidder types.Address) (types.Address, error) {
	if err := k.ensureCanCreate(); err != nil {
		return types.ZeroAddress, err
	}

	if _, err := k.GetAuction(ctx, auctionAddr); err != nil {
		return types.ZeroAddress, err
	}

	bidAddr := types.BidAddress(auctionAddr, bidder)
	if k.HasRecord(ctx, bidAddr) {
		return types.ZeroAddress, types.ErrBidAlreadyExists.Wrapf("bid of %s on %s", bidder, auctionAddr)
	}

	k.SetBid(ctx, bidAddr, types.NewBid(auctionAddr, bidder))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBidInitialized,
			sdk.NewAttribute(types.EventAttrAuction, auctionAddr.String()),
			sdk.NewAttribute(types.EventAttrBidder, bidder.String()),
			sdk.NewAttribute(types.EventAttrBid, bidAddr.String()),
		),
	)

	return bidAddr, nil
}

// SubmitSealedBid creates and commits a bid in a single step. The bid must not
// exist yet, so this path is only available on the primary ledger.
func (k Keeper) SubmitSealedBid(ctx sdk.Context, auctionAddr, bidder types.Address, bidHash types.Hash) (types.Address, error) {
	if err := k.ensureCanCreate(); err != nil {
		return types.ZeroAddress, err
	}

	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return types.ZeroAddress, err
	}

	if err := k.ensureWritable(ctx, auctionAddr); err != nil {
		return types.ZeroAddress, err
	}

	bidAddr := types.BidAddress(auctionAddr, bidder)
	if k.HasRecord(ctx, bidAddr) {
		return types.ZeroAddress, types.ErrBidAlreadyExists.Wrapf("bid of %s on %s", bidder, auctionAddr)
	}

	if err := k.RecordCommit(ctx, &auction); err != nil {
		return types.ZeroAddress, err
	}

	bid := types.NewBid(auctionAddr, bidder)
	bid.Commit(bidHash)

	k.SetBid(ctx, bidAddr, bid)
	k.SetAuction(ctx, auctionAddr, auction)

	k.emitBidCommitted(ctx, auctionAddr, bidder, bidAddr)

	return bidAddr, nil
}

// SubmitSealedBidDelegated commits a bid that was provisioned earlier. It is
// the commit path used from the delegated view.
func (k Keeper) SubmitSealedBidDelegated(ctx sdk.Context, auctionAddr, bidder types.Address, bidHash types.Hash) (types.Address, error) {
	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return types.ZeroAddress, err
	}

	bidAddr := types.BidAddress(auctionAddr, bidder)
	bid, err := k.GetBid(ctx, bidAddr)
	if err != nil {
		return types.ZeroAddress, err
	}

	if err := k.ensureWritable(ctx, auctionAddr); err != nil {
		return types.ZeroAddress, err
	}

	if err := k.ensureWritable(ctx, bidAddr); err != nil {
		return types.ZeroAddress, err
	}

	if err := checkCommitWindow(now(ctx), auction); err != nil {
		return types.ZeroAddress, err
	}

	if bid.Committed {
		return types.ZeroAddress, types.ErrBidAlreadyCommitted.Wrapf("bid %s", bidAddr)
	}

	if !bid.Matches(auctionAddr, bidder) {
		return types.ZeroAddress, types.ErrBidAccountMismatch.Wrapf(
			"bid %s references auction %s and bidder %s",
			bidAddr, bid.Auction, bid.Bidder,
		)
	}

	if err := k.RecordCommit(ctx, &auction); err != nil {
		return types.ZeroAddress, err
	}

	bid.Commit(bidHash)

	k.SetBid(ctx, bidAddr, bid)
	k.SetAuction(ctx, auctionAddr, auction)

	k.emitBidCommitted(ctx, auctionAddr, bidder, bidAddr)

	return bidAddr, nil
}

// RevealBid discloses the amount and nonce behind a committed bid. Window
// checks run first, then the bid state, then the commitment itself.
func (k Keeper) RevealBid(ctx sdk.Context, auctionAddr, bidder types.Address, amount uint64, nonce types.Nonce) error {
	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return err
	}

	bidAddr := types.BidAddress(auctionAddr, bidder)
	bid, err := k.GetBid(ctx, bidAddr)
	if err != nil {
		return err
	}

	if !bid.Matches(auctionAddr, bidder) {
		return types.ErrBidAccountMismatch.Wrapf("bid %s", bidAddr)
	}

	if err := k.ensureWritable(ctx, auctionAddr); err != nil {
		return err
	}

	if err := k.ensureWritable(ctx, bidAddr); err != nil {
		return err
	}

	if err := checkRevealWindow(now(ctx), auction); err != nil {
		return err
	}

	if !bid.Committed {
		return types.ErrBidNotCommitted.Wrapf("bid %s", bidAddr)
	}

	if bid.Revealed {
		return types.ErrAlreadyRevealed.Wrapf("bid %s", bidAddr)
	}

	if err := k.RecordReveal(ctx, auctionAddr, &auction, bidder, amount, nonce, bid.BidHash); err != nil {
		return err
	}

	bid.Reveal(amount, nonce)

	k.SetBid(ctx, bidAddr, bid)
	k.SetAuction(ctx, auctionAddr, auction)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBidRevealed,
			sdk.NewAttribute(types.EventAttrAuction, auctionAddr.String()),
			sdk.NewAttribute(types.EventAttrBidder, bidder.String()),
			sdk.NewAttribute(types.EventAttrAmount, strconv.FormatUint(amount, 10)),
		),
	)

	return nil
}

func (k Keeper) emitBidCommitted(ctx sdk.Context, auctionAddr, bidder, bidAddr types.Address) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBidCommitted,
			sdk.NewAttribute(types.EventAttrAuction, auctionAddr.String()),
			sdk.NewAttribute(types.EventAttrBidder, bidder.String()),
			sdk.NewAttribute(types.EventAttrBid, bidAddr.String()),
		),
	)
}
