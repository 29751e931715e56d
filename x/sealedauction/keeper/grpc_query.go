package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

var _ types.QueryServer = QueryServer{}

// QueryServer defines the sealedauction module's query service. It answers
// from whichever view its keeper is bound to.
type QueryServer struct {
	keeper Keeper
}

// NewQueryServer creates a new query server for the sealedauction module.
func NewQueryServer(keeper Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params queries all parameters of the sealedauction module.
func (q QueryServer) Params(c context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	params, err := q.keeper.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{Params: params}, nil
}

// Auction queries a single auction by address, or by the authority and id it
// was created with.
func (q QueryServer) Auction(c context.Context, req *types.QueryAuctionRequest) (*types.QueryAuctionResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	var addr types.Address
	switch {
	case req.Address != "":
		parsed, err := types.ParseAddress(req.Address)
		if err != nil {
			return nil, types.ErrInvalidAddress.Wrap(err.Error())
		}
		addr = parsed

	case req.Authority != "":
		authority, err := types.ParseAddress(req.Authority)
		if err != nil {
			return nil, types.ErrInvalidAddress.Wrap(err.Error())
		}
		addr = types.AuctionAddress(authority, req.AuctionID)

	default:
		return nil, types.ErrInvalidAddress.Wrap("either an auction address or an authority is required")
	}

	auction, err := q.keeper.GetAuction(ctx, addr)
	if err != nil {
		return nil, err
	}

	return &types.QueryAuctionResponse{
		Address:   addr,
		Auction:   auction,
		Phase:     auction.Phase(now(ctx)),
		Delegated: q.keeper.IsDelegated(ctx, addr),
		Settled:   q.keeper.IsSettled(ctx, addr, auction),
	}, nil
}

// Auctions queries every auction in the view.
func (q QueryServer) Auctions(c context.Context, _ *types.QueryAuctionsRequest) (*types.QueryAuctionsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	auctions, err := q.keeper.GetAuctions(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryAuctionsResponse{Auctions: auctions}, nil
}

// Bid queries the bid of a bidder on an auction.
func (q QueryServer) Bid(c context.Context, req *types.QueryBidRequest) (*types.QueryBidResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	auction, bidder, err := parsePair(req.Auction, req.Bidder)
	if err != nil {
		return nil, err
	}

	addr := types.BidAddress(auction, bidder)
	bid, err := q.keeper.GetBid(ctx, addr)
	if err != nil {
		return nil, err
	}

	return &types.QueryBidResponse{
		Address:   addr,
		Bid:       bid,
		State:     bid.State(),
		Delegated: q.keeper.IsDelegated(ctx, addr),
	}, nil
}

// BidsByAuction queries every bid in the view placed on an auction.
func (q QueryServer) BidsByAuction(c context.Context, req *types.QueryBidsByAuctionRequest) (*types.QueryBidsByAuctionResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)

	auction, err := types.ParseAddress(req.Auction)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	bids, err := q.keeper.GetBidsByAuction(ctx, auction)
	if err != nil {
		return nil, err
	}

	return &types.QueryBidsByAuctionResponse{Bids: bids}, nil
}

// AuctionAddress derives the address of an auction without reading state.
func (q QueryServer) AuctionAddress(_ context.Context, req *types.QueryAuctionAddressRequest) (*types.QueryAddressResponse, error) {
	authority, err := types.ParseAddress(req.Authority)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	return &types.QueryAddressResponse{Address: types.AuctionAddress(authority, req.AuctionID)}, nil
}

// BidAddress derives the address of a bid without reading state.
func (q QueryServer) BidAddress(_ context.Context, req *types.QueryBidAddressRequest) (*types.QueryAddressResponse, error) {
	auction, bidder, err := parsePair(req.Auction, req.Bidder)
	if err != nil {
		return nil, err
	}

	return &types.QueryAddressResponse{Address: types.BidAddress(auction, bidder)}, nil
}
