package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// CreateAuctionPermission asks the permission service to register the auction
// authority as the controller of the auction record. The module signs with the
// auction's derivation seeds.
func (k Keeper) CreateAuctionPermission(ctx sdk.Context, auctionAddr, permissionAddr, payer types.Address) error {
	if err := k.ensurePermissionService(); err != nil {
		return err
	}

	auction, err := k.GetAuction(ctx, auctionAddr)
	if err != nil {
		return err
	}

	if expected := types.AuctionAddress(auction.Authority, auction.AuctionID); !expected.Equals(auctionAddr) {
		return types.ErrPermissionedAccountMismatch.Wrapf("expected auction %s, got %s", expected, auctionAddr)
	}

	if err := checkPermissionAddress(auctionAddr, permissionAddr); err != nil {
		return err
	}

	seeds := types.AuctionSeeds(auction.Authority, auction.AuctionID)
	return k.requestPermission(ctx, seeds, auctionAddr, permissionAddr, auction.Authority, payer)
}

// CreateBidPermission asks the permission service to register the bidder as
// the controller of the bid record.
func (k Keeper) CreateBidPermission(ctx sdk.Context, bidAddr, permissionAddr, payer types.Address) error {
	if err := k.ensurePermissionService(); err != nil {
		return err
	}

	bid, err := k.GetBid(ctx, bidAddr)
	if err != nil {
		return err
	}

	if expected := types.BidAddress(bid.Auction, bid.Bidder); !expected.Equals(bidAddr) {
		return types.ErrPermissionedAccountMismatch.Wrapf("expected bid %s, got %s", expected, bidAddr)
	}

	if err := checkPermissionAddress(bidAddr, permissionAddr); err != nil {
		return err
	}

	seeds := types.BidSeeds(bid.Auction, bid.Bidder)
	return k.requestPermission(ctx, seeds, bidAddr, permissionAddr, bid.Bidder, payer)
}

func (k Keeper) requestPermission(
	ctx sdk.Context,
	seeds [][]byte,
	permissioned, permission, controller, payer types.Address,
) error {
	members := []types.Member{types.NewAuthorityMember(controller)}

	if err := k.permissionKeeper.CreatePermission(ctx, types.ModuleName, seeds, permissioned, members); err != nil {
		return errorsmod.Wrapf(err, "failed to create permission %s for %s", permission, permissioned)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePermission,
			sdk.NewAttribute(types.EventAttrRecord, permissioned.String()),
			sdk.NewAttribute(types.EventAttrPermission, permission.String()),
			sdk.NewAttribute(types.EventAttrController, controller.String()),
		),
	)

	k.Logger(ctx).Debug(
		"permission requested",
		"record", permissioned.String(),
		"permission", permission.String(),
		"payer", payer.String(),
	)

	return nil
}

func (k Keeper) ensurePermissionService() error {
	if k.view != types.ViewPrimary || k.permissionKeeper == nil {
		return types.ErrInvalidView.Wrapf("permissions cannot be requested from the %s view", k.view)
	}

	return nil
}

func checkPermissionAddress(permissioned, permission types.Address) error {
	if expected := types.PermissionAddress(permissioned); !expected.Equals(permission) {
		return types.ErrPermissionAccountMismatch.Wrapf("expected permission %s, got %s", expected, permission)
	}

	return nil
}
