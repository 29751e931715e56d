package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

var _ types.MsgServer = MsgServer{}

// MsgServer is the wrapper for the sealedauction module's msg service.
type MsgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the sealedauction MsgServer interface.
func NewMsgServerImpl(keeper Keeper) *MsgServer {
	return &MsgServer{Keeper: keeper}
}

func (m MsgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	// ensure that the message signer is the authority
	if msg.Authority != m.Keeper.GetAuthority() {
		return nil, fmt.Errorf("this message can only be executed by the authority; expected %s, got %s", m.Keeper.GetAuthority(), msg.Authority)
	}

	if err := m.Keeper.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

func (m MsgServer) CreateAuction(goCtx context.Context, msg *types.MsgCreateAuction) (*types.MsgCreateAuctionResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	// This should never return an error because the address was validated when
	// the message was ingressed.
	authority, err := types.ParseAddress(msg.Authority)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.CreateAuction(ctx, authority, msg.AuctionID, msg.StartTs, msg.EndTs, msg.RevealEndTs, msg.ReservePrice)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateAuctionResponse{Auction: addr.String()}, nil
}

func (m MsgServer) InitializeBid(goCtx context.Context, msg *types.MsgInitializeBid) (*types.MsgInitializeBidResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	auction, bidder, err := parsePair(msg.Auction, msg.Bidder)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.InitializeBid(ctx, auction, bidder)
	if err != nil {
		return nil, err
	}

	return &types.MsgInitializeBidResponse{Bid: addr.String()}, nil
}

func (m MsgServer) SubmitSealedBid(goCtx context.Context, msg *types.MsgSubmitSealedBid) (*types.MsgSubmitSealedBidResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	auction, bidder, err := parsePair(msg.Auction, msg.Bidder)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.SubmitSealedBid(ctx, auction, bidder, msg.BidHash)
	if err != nil {
		return nil, err
	}

	return &types.MsgSubmitSealedBidResponse{Bid: addr.String()}, nil
}

func (m MsgServer) SubmitSealedBidDelegated(goCtx context.Context, msg *types.MsgSubmitSealedBidDelegated) (*types.MsgSubmitSealedBidResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	auction, bidder, err := parsePair(msg.Auction, msg.Bidder)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.SubmitSealedBidDelegated(ctx, auction, bidder, msg.BidHash)
	if err != nil {
		return nil, err
	}

	return &types.MsgSubmitSealedBidResponse{Bid: addr.String()}, nil
}

func (m MsgServer) RevealBid(goCtx context.Context, msg *types.MsgRevealBid) (*types.MsgRevealBidResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	auction, bidder, err := parsePair(msg.Auction, msg.Bidder)
	if err != nil {
		return nil, err
	}

	if err := m.Keeper.RevealBid(ctx, auction, bidder, msg.Amount, msg.Nonce); err != nil {
		return nil, err
	}

	return &types.MsgRevealBidResponse{}, nil
}

func (m MsgServer) FinalizeAuction(goCtx context.Context, msg *types.MsgFinalizeAuction) (*types.MsgFinalizeAuctionResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	authority, auctionAddr, err := parsePair(msg.Authority, msg.Auction)
	if err != nil {
		return nil, err
	}

	auction, err := m.Keeper.FinalizeAuction(ctx, authority, auctionAddr)
	if err != nil {
		return nil, err
	}

	resp := &types.MsgFinalizeAuctionResponse{HighestBid: auction.HighestBid}
	if winner, ok := auction.Winner(); ok {
		resp.Winner = winner.String()
	}

	return resp, nil
}

func (m MsgServer) CreateAuctionPermission(goCtx context.Context, msg *types.MsgCreateAuctionPermission) (*types.MsgCreatePermissionResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	addrs, err := parseAddresses(msg.Auction, msg.Permission, msg.Payer)
	if err != nil {
		return nil, err
	}

	if err := m.Keeper.CreateAuctionPermission(ctx, addrs[0], addrs[1], addrs[2]); err != nil {
		return nil, err
	}

	return &types.MsgCreatePermissionResponse{}, nil
}

func (m MsgServer) CreateBidPermission(goCtx context.Context, msg *types.MsgCreateBidPermission) (*types.MsgCreatePermissionResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	addrs, err := parseAddresses(msg.Bid, msg.Permission, msg.Payer)
	if err != nil {
		return nil, err
	}

	if err := m.Keeper.CreateBidPermission(ctx, addrs[0], addrs[1], addrs[2]); err != nil {
		return nil, err
	}

	return &types.MsgCreatePermissionResponse{}, nil
}

func (m MsgServer) DelegateAuction(goCtx context.Context, msg *types.MsgDelegateAuction) (*types.MsgDelegateResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	payer, authority, err := parsePair(msg.Payer, msg.Authority)
	if err != nil {
		return nil, err
	}

	validator, err := types.ParseOptionalValidator(msg.Validator)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.DelegateAuction(ctx, payer, authority, msg.AuctionID, validator)
	if err != nil {
		return nil, err
	}

	return &types.MsgDelegateResponse{Record: addr.String()}, nil
}

func (m MsgServer) DelegateBid(goCtx context.Context, msg *types.MsgDelegateBid) (*types.MsgDelegateResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	addrs, err := parseAddresses(msg.Payer, msg.Auction, msg.Bidder)
	if err != nil {
		return nil, err
	}

	validator, err := types.ParseOptionalValidator(msg.Validator)
	if err != nil {
		return nil, err
	}

	addr, err := m.Keeper.DelegateBid(ctx, addrs[0], addrs[1], addrs[2], validator)
	if err != nil {
		return nil, err
	}

	return &types.MsgDelegateResponse{Record: addr.String()}, nil
}

func (m MsgServer) FinalizeAndSettle(goCtx context.Context, msg *types.MsgFinalizeAndSettle) (*types.MsgFinalizeAndSettleResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	addrs, err := parseAddresses(msg.Authority, msg.Payer, msg.Auction)
	if err != nil {
		return nil, err
	}

	bids, err := parseAddresses(msg.Bids...)
	if err != nil {
		return nil, err
	}

	if err := m.Keeper.FinalizeAndSettle(ctx, addrs[0], addrs[1], addrs[2], bids); err != nil {
		return nil, err
	}

	return &types.MsgFinalizeAndSettleResponse{}, nil
}

func parsePair(a, b string) (types.Address, types.Address, error) {
	addrs, err := parseAddresses(a, b)
	if err != nil {
		return types.ZeroAddress, types.ZeroAddress, err
	}

	return addrs[0], addrs[1], nil
}

func parseAddresses(ss ...string) ([]types.Address, error) {
	addrs := make([]types.Address, len(ss))
	for i, s := range ss {
		addr, err := types.ParseAddress(s)
		if err != nil {
			return nil, types.ErrInvalidAddress.Wrap(err.Error())
		}

		addrs[i] = addr
	}

	return addrs, nil
}
