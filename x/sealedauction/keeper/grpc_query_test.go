package keeper_test

import (
	"github.com/skip-mev/sealed-auction/x/sealedauction/keeper"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

func (suite *KeeperTestSuite) TestQueryParams() {
	server := keeper.NewQueryServer(suite.primaryKeeper)

	resp, err := server.Params(suite.ctx, &types.QueryParamsRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal(types.DefaultParams(), resp.Params)
}

func (suite *KeeperTestSuite) TestQueryAuction() {
	server := keeper.NewQueryServer(suite.primaryKeeper)
	addr := suite.createAuction(1, 0)

	testCases := []struct {
		name      string
		req       *types.QueryAuctionRequest
		offset    int64
		phase     types.AuctionPhase
		expectErr error
	}{
		{
			name:   "by address before start",
			req:    &types.QueryAuctionRequest{Address: addr.String()},
			offset: 0,
			phase:  types.PhasePending,
		},
		{
			name:   "by authority and id while bidding",
			req:    &types.QueryAuctionRequest{Authority: suite.authority.String(), AuctionID: 1},
			offset: startOffset,
			phase:  types.PhaseBidding,
		},
		{
			name:   "during reveal",
			req:    &types.QueryAuctionRequest{Address: addr.String()},
			offset: endOffset,
			phase:  types.PhaseReveal,
		},
		{
			name:   "awaiting finalize",
			req:    &types.QueryAuctionRequest{Address: addr.String()},
			offset: revealEndOffset,
			phase:  types.PhaseAwaitingFinalize,
		},
		{
			name:      "unknown auction",
			req:       &types.QueryAuctionRequest{Authority: suite.authority.String(), AuctionID: 2},
			expectErr: types.ErrAuctionNotFound,
		},
		{
			name:      "empty request",
			req:       &types.QueryAuctionRequest{},
			expectErr: types.ErrInvalidAddress,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			resp, err := server.Auction(suite.at(tc.offset), tc.req)
			if tc.expectErr != nil {
				suite.Require().ErrorIs(err, tc.expectErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(addr, resp.Address)
			suite.Require().Equal(tc.phase, resp.Phase)
			suite.Require().False(resp.Delegated)
			suite.Require().False(resp.Settled)
		})
	}
}

func (suite *KeeperTestSuite) TestQueryAuctionSettled() {
	server := keeper.NewQueryServer(suite.primaryKeeper)
	addr := suite.createAuction(1, 0)

	_, err := suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().NoError(err)

	resp, err := server.Auction(suite.at(revealEndOffset), &types.QueryAuctionRequest{Address: addr.String()})
	suite.Require().NoError(err)
	suite.Require().Equal(types.PhaseFinalized, resp.Phase)
	suite.Require().True(resp.Settled)

	suite.delegated[addr] = true

	resp, err = server.Auction(suite.at(revealEndOffset), &types.QueryAuctionRequest{Address: addr.String()})
	suite.Require().NoError(err)
	suite.Require().True(resp.Delegated)
	suite.Require().False(resp.Settled)
}

func (suite *KeeperTestSuite) TestQueryBids() {
	server := keeper.NewQueryServer(suite.primaryKeeper)
	addr := suite.createAuction(1, 0)

	suite.commit(suite.primaryKeeper, addr, suite.alice, 5, nonceOf(1))
	suite.commit(suite.primaryKeeper, addr, suite.bob, 6, nonceOf(2))
	suite.reveal(suite.primaryKeeper, addr, suite.bob, 6, nonceOf(2))

	resp, err := server.Bid(suite.ctx, &types.QueryBidRequest{Auction: addr.String(), Bidder: suite.bob.String()})
	suite.Require().NoError(err)
	suite.Require().Equal(types.BidAddress(addr, suite.bob), resp.Address)
	suite.Require().Equal(types.BidRevealed, resp.State)
	suite.Require().Equal(uint64(6), resp.Bid.Amount)

	_, err = server.Bid(suite.ctx, &types.QueryBidRequest{Auction: addr.String(), Bidder: suite.carol.String()})
	suite.Require().ErrorIs(err, types.ErrBidNotFound)

	bidsResp, err := server.BidsByAuction(suite.ctx, &types.QueryBidsByAuctionRequest{Auction: addr.String()})
	suite.Require().NoError(err)
	suite.Require().Len(bidsResp.Bids, 2)

	auctionsResp, err := server.Auctions(suite.ctx, &types.QueryAuctionsRequest{})
	suite.Require().NoError(err)
	suite.Require().Len(auctionsResp.Auctions, 1)
	suite.Require().Equal(addr, auctionsResp.Auctions[0].Address)
}

func (suite *KeeperTestSuite) TestQueryAddresses() {
	server := keeper.NewQueryServer(suite.delegatedKeeper)

	resp, err := server.AuctionAddress(suite.ctx, &types.QueryAuctionAddressRequest{
		Authority: suite.authority.String(),
		AuctionID: 9,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(types.AuctionAddress(suite.authority, 9), resp.Address)

	resp, err = server.BidAddress(suite.ctx, &types.QueryBidAddressRequest{
		Auction: resp.Address.String(),
		Bidder:  suite.alice.String(),
	})
	suite.Require().NoError(err)
	suite.Require().Equal(types.BidAddress(types.AuctionAddress(suite.authority, 9), suite.alice), resp.Address)
}
