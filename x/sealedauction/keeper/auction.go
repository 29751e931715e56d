package keeper

import (
	"math"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// CreateAuction opens a new auction owned by authority. The auction lives at
// the address derived from (authority, auctionID), so there is at most one per
// pair.
func (k Keeper) CreateAuction(
	ctx sdk.Context,
	authority types.Address,
	auctionID uint64,
	startTs, endTs, revealEndTs int64,
	reservePrice uint64,
) (types.Address, error) {
	if err := k.ensureCanCreate(); err != nil {
		return types.ZeroAddress, err
	}

	if err := types.ValidateWindows(now(ctx), startTs, endTs, revealEndTs); err != nil {
		return types.ZeroAddress, err
	}

	addr := types.AuctionAddress(authority, auctionID)
	if k.HasRecord(ctx, addr) {
		return types.ZeroAddress, types.ErrAuctionAlreadyExists.Wrapf("auction %d of %s at %s", auctionID, authority, addr)
	}

	auction := types.NewAuction(authority, auctionID, startTs, endTs, revealEndTs, reservePrice)
	k.SetAuction(ctx, addr, auction)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuctionCreated,
			sdk.NewAttribute(types.EventAttrAuction, addr.String()),
			sdk.NewAttribute(types.EventAttrAuthority, authority.String()),
			sdk.NewAttribute(types.EventAttrStartTs, strconv.FormatInt(startTs, 10)),
			sdk.NewAttribute(types.EventAttrEndTs, strconv.FormatInt(endTs, 10)),
			sdk.NewAttribute(types.EventAttrRevealEndTs, strconv.FormatInt(revealEndTs, 10)),
			sdk.NewAttribute(types.EventAttrReservePrice, strconv.FormatUint(reservePrice, 10)),
		),
	)

	k.Logger(ctx).Info("auction created", "auction", addr.String(), "authority", authority.String(), "auction_id", auctionID)

	return addr, nil
}

// RecordCommit accounts for a new commitment against auction. It only mutates
// the in-memory record; the caller persists it together with the bid.
func (k Keeper) RecordCommit(ctx sdk.Context, auction *types.Auction) error {
	if err := checkCommitWindow(now(ctx), *auction); err != nil {
		return err
	}

	total, err := incrementU32(auction.TotalBids)
	if err != nil {
		return err
	}

	auction.TotalBids = total
	return nil
}

// RecordReveal verifies a reveal against the stored commitment and folds it
// into the running result. Ties never displace the current leader, so the
// earliest bidder to reach an amount keeps it. It only mutates the in-memory
// record.
func (k Keeper) RecordReveal(
	ctx sdk.Context,
	auctionAddr types.Address,
	auction *types.Auction,
	bidder types.Address,
	amount uint64,
	nonce types.Nonce,
	storedHash types.Hash,
) error {
	if err := checkRevealWindow(now(ctx), *auction); err != nil {
		return err
	}

	if types.ComputeBidHash(amount, nonce, bidder, auctionAddr) != storedHash {
		return types.ErrInvalidReveal.Wrapf("bidder %s on auction %s", bidder, auctionAddr)
	}

	total, err := incrementU32(auction.TotalRevealed)
	if err != nil {
		return err
	}

	auction.TotalRevealed = total

	if amount > auction.HighestBid {
		leader := bidder
		auction.HighestBid = amount
		auction.HighestBidder = &leader
	}

	return nil
}

// FinalizeAuction closes the auction once the reveal window is over. If the
// highest revealed bid is below the reserve price the auction ends without a
// winner; the highest bid and counters stay visible.
func (k Keeper) FinalizeAuction(ctx sdk.Context, authority, auctionAddr types.Address) (types.Auction, error) {
	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return types.Auction{}, err
	}

	if !auction.Authority.Equals(authority) {
		return types.Auction{}, types.ErrUnauthorizedAuthority.Wrapf("%s is not the authority of %s", authority, auctionAddr)
	}

	if err := k.ensureWritable(ctx, auctionAddr); err != nil {
		return types.Auction{}, err
	}

	if now(ctx) < auction.RevealEndTs {
		return types.Auction{}, types.ErrRevealStillOpen.Wrapf("reveal window ends at %d", auction.RevealEndTs)
	}

	if auction.IsFinalized() {
		return types.Auction{}, types.ErrAuctionAlreadyFinalized.Wrapf("auction %s", auctionAddr)
	}

	auction.Status = types.StatusFinalized
	if auction.HighestBid < auction.ReservePrice {
		auction.HighestBidder = nil
	}

	k.SetAuction(ctx, auctionAddr, auction)

	winner := ""
	if w, ok := auction.Winner(); ok {
		winner = w.String()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuctionFinalized,
			sdk.NewAttribute(types.EventAttrAuction, auctionAddr.String()),
			sdk.NewAttribute(types.EventAttrWinner, winner),
			sdk.NewAttribute(types.EventAttrHighestBid, strconv.FormatUint(auction.HighestBid, 10)),
			sdk.NewAttribute(types.EventAttrReservePrice, strconv.FormatUint(auction.ReservePrice, 10)),
			sdk.NewAttribute(types.EventAttrTotalBids, strconv.FormatUint(uint64(auction.TotalBids), 10)),
			sdk.NewAttribute(types.EventAttrTotalRevealed, strconv.FormatUint(uint64(auction.TotalRevealed), 10)),
		),
	)

	k.Logger(ctx).Info(
		"auction finalized",
		"auction", auctionAddr.String(),
		"winner", winner,
		"highest_bid", auction.HighestBid,
		"reserve_price", auction.ReservePrice,
	)

	return auction, nil
}

// IsSettled reports whether the auction is finalized and no longer delegated.
// Settlement is derived rather than stored.
func (k Keeper) IsSettled(ctx sdk.Context, auctionAddr types.Address, auction types.Auction) bool {
	return auction.IsFinalized() && !k.IsDelegated(ctx, auctionAddr)
}

func checkCommitWindow(now int64, auction types.Auction) error {
	if now < auction.StartTs {
		return types.ErrAuctionNotStarted.Wrapf("bidding opens at %d", auction.StartTs)
	}

	if now >= auction.EndTs {
		return types.ErrBiddingClosed.Wrapf("bidding closed at %d", auction.EndTs)
	}

	return nil
}

func checkRevealWindow(now int64, auction types.Auction) error {
	if now < auction.EndTs {
		return types.ErrRevealNotStarted.Wrapf("reveal opens at %d", auction.EndTs)
	}

	if now >= auction.RevealEndTs {
		return types.ErrRevealClosed.Wrapf("reveal closed at %d", auction.RevealEndTs)
	}

	return nil
}

func incrementU32(v uint32) (uint32, error) {
	if v == math.MaxUint32 {
		return 0, types.ErrMathOverflow.Wrapf("counter at %d", v)
	}

	return v + 1, nil
}
