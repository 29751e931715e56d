package keeper_test

import (
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

func (suite *KeeperTestSuite) TestInitializeBid() {
	addr := suite.createAuction(1, 0)

	suite.Run("unknown auction", func() {
		_, err := suite.primaryKeeper.InitializeBid(suite.at(0), types.AuctionAddress(suite.authority, 2), suite.alice)
		suite.Require().ErrorIs(err, types.ErrAuctionNotFound)
	})

	suite.Run("provisions an empty bid", func() {
		ctx := suite.at(0)
		bidAddr, err := suite.primaryKeeper.InitializeBid(ctx, addr, suite.alice)
		suite.Require().NoError(err)
		suite.Require().Equal(types.BidAddress(addr, suite.alice), bidAddr)

		bid, err := suite.primaryKeeper.GetBid(suite.ctx, bidAddr)
		suite.Require().NoError(err)
		suite.Require().Equal(types.NewBid(addr, suite.alice), bid)
		suite.Require().Equal(types.BidUninitialized, bid.State())

		suite.Require().Equal(types.EventTypeBidInitialized, ctx.EventManager().Events()[0].Type)

		// provisioning does not count as a commitment
		auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Zero(auction.TotalBids)
	})

	suite.Run("twice", func() {
		_, err := suite.primaryKeeper.InitializeBid(suite.at(0), addr, suite.alice)
		suite.Require().ErrorIs(err, types.ErrBidAlreadyExists)
	})

	suite.Run("not from the delegated view", func() {
		_, err := suite.delegatedKeeper.InitializeBid(suite.at(0), addr, suite.bob)
		suite.Require().ErrorIs(err, types.ErrRecordCreationUnavailable)
	})
}

func (suite *KeeperTestSuite) TestSubmitSealedBid() {
	addr := suite.createAuction(1, 0)
	hash := types.ComputeBidHash(10, nonceOf(1), suite.alice, addr)

	testCases := []struct {
		name      string
		malleate  func()
		keeperFn  func() error
		expectErr error
	}{
		{
			name: "before start",
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset-1), addr, suite.alice, hash)
				return err
			},
			expectErr: types.ErrAuctionNotStarted,
		},
		{
			name: "after end",
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(endOffset), addr, suite.alice, hash)
				return err
			},
			expectErr: types.ErrBiddingClosed,
		},
		{
			name: "unknown auction",
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), types.AuctionAddress(suite.bob, 1), suite.alice, hash)
				return err
			},
			expectErr: types.ErrAuctionNotFound,
		},
		{
			name: "from the delegated view",
			keeperFn: func() error {
				_, err := suite.delegatedKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.alice, hash)
				return err
			},
			expectErr: types.ErrRecordCreationUnavailable,
		},
		{
			name: "committed",
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.alice, hash)
				return err
			},
		},
		{
			name: "bid record already exists",
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.alice, hash)
				return err
			},
			expectErr: types.ErrBidAlreadyExists,
		},
		{
			name: "auction is delegated",
			malleate: func() {
				suite.delegated[addr] = true
			},
			keeperFn: func() error {
				_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.bob, hash)
				return err
			},
			expectErr: types.ErrRecordDelegated,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			if tc.malleate != nil {
				tc.malleate()
			}

			err := tc.keeperFn()
			if tc.expectErr != nil {
				suite.Require().ErrorIs(err, tc.expectErr)
				return
			}

			suite.Require().NoError(err)
		})
	}

	auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(1), auction.TotalBids)

	bid, err := suite.primaryKeeper.GetBid(suite.ctx, types.BidAddress(addr, suite.alice))
	suite.Require().NoError(err)
	suite.Require().Equal(types.BidCommitted, bid.State())
	suite.Require().Equal(hash, bid.BidHash)
	suite.Require().Zero(bid.Amount)
	suite.Require().True(bid.Nonce == types.Nonce{})

	suite.Require().False(suite.primaryKeeper.HasRecord(suite.ctx, types.BidAddress(addr, suite.bob)))
}

func (suite *KeeperTestSuite) TestSubmitSealedBidDelegated() {
	addr := suite.createAuction(1, 0)
	bidAddr, err := suite.primaryKeeper.InitializeBid(suite.at(0), addr, suite.alice)
	suite.Require().NoError(err)

	suite.moveToDelegated(addr)
	suite.moveToDelegated(bidAddr)

	hash := types.ComputeBidHash(10, nonceOf(1), suite.alice, addr)

	suite.Run("primary copy is frozen", func() {
		_, err := suite.primaryKeeper.SubmitSealedBidDelegated(suite.at(startOffset), addr, suite.alice, hash)
		suite.Require().ErrorIs(err, types.ErrRecordDelegated)
	})

	suite.Run("bid was never provisioned", func() {
		_, err := suite.delegatedKeeper.SubmitSealedBidDelegated(suite.at(startOffset), addr, suite.bob, hash)
		suite.Require().ErrorIs(err, types.ErrBidNotFound)
	})

	suite.Run("outside the bidding window", func() {
		_, err := suite.delegatedKeeper.SubmitSealedBidDelegated(suite.at(startOffset-1), addr, suite.alice, hash)
		suite.Require().ErrorIs(err, types.ErrAuctionNotStarted)

		_, err = suite.delegatedKeeper.SubmitSealedBidDelegated(suite.at(endOffset), addr, suite.alice, hash)
		suite.Require().ErrorIs(err, types.ErrBiddingClosed)
	})

	suite.Run("commits the provisioned bid", func() {
		ctx := suite.at(startOffset)
		got, err := suite.delegatedKeeper.SubmitSealedBidDelegated(ctx, addr, suite.alice, hash)
		suite.Require().NoError(err)
		suite.Require().Equal(bidAddr, got)

		bid, err := suite.delegatedKeeper.GetBid(suite.ctx, bidAddr)
		suite.Require().NoError(err)
		suite.Require().Equal(types.BidCommitted, bid.State())
		suite.Require().Equal(hash, bid.BidHash)

		auction, err := suite.delegatedKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Equal(uint32(1), auction.TotalBids)

		suite.Require().Equal(types.EventTypeBidCommitted, ctx.EventManager().Events()[0].Type)
	})

	suite.Run("already committed", func() {
		_, err := suite.delegatedKeeper.SubmitSealedBidDelegated(suite.at(startOffset), addr, suite.alice, hash)
		suite.Require().ErrorIs(err, types.ErrBidAlreadyCommitted)
	})

	suite.Run("primary copies are unchanged", func() {
		auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Zero(auction.TotalBids)

		bid, err := suite.primaryKeeper.GetBid(suite.ctx, bidAddr)
		suite.Require().NoError(err)
		suite.Require().False(bid.Committed)
	})
}

func (suite *KeeperTestSuite) TestSubmitSealedBidDelegatedAccountMismatch() {
	addr := suite.createAuction(1, 0)
	bidAddr := types.BidAddress(addr, suite.alice)

	// a record at the bid address that points somewhere else
	suite.delegatedKeeper.SetAuction(suite.ctx, addr, mustAuction(suite, addr))
	suite.delegatedKeeper.SetBid(suite.ctx, bidAddr, types.NewBid(addr, suite.bob))

	_, err := suite.delegatedKeeper.SubmitSealedBidDelegated(suite.at(startOffset), addr, suite.alice, types.Hash{1})
	suite.Require().ErrorIs(err, types.ErrBidAccountMismatch)

	auction, err := suite.delegatedKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().Zero(auction.TotalBids)
}

func (suite *KeeperTestSuite) TestRevealBid() {
	addr := suite.createAuction(1, 0)
	nonce := nonceOf(7)
	suite.commit(suite.primaryKeeper, addr, suite.alice, 75, nonce)

	_, err := suite.primaryKeeper.InitializeBid(suite.at(0), addr, suite.bob)
	suite.Require().NoError(err)

	bidAddr := types.BidAddress(addr, suite.alice)

	suite.Run("reveal not started", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset-1), addr, suite.alice, 75, nonce)
		suite.Require().ErrorIs(err, types.ErrRevealNotStarted)
	})

	suite.Run("reveal closed", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(revealEndOffset), addr, suite.alice, 75, nonce)
		suite.Require().ErrorIs(err, types.ErrRevealClosed)
	})

	suite.Run("never committed", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.bob, 75, nonce)
		suite.Require().ErrorIs(err, types.ErrBidNotCommitted)
	})

	suite.Run("no bid", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.carol, 75, nonce)
		suite.Require().ErrorIs(err, types.ErrBidNotFound)
	})

	suite.Run("wrong nonce leaves the bid unrevealed", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.alice, 75, nonceOf(8))
		suite.Require().ErrorIs(err, types.ErrInvalidReveal)

		bid, err := suite.primaryKeeper.GetBid(suite.ctx, bidAddr)
		suite.Require().NoError(err)
		suite.Require().False(bid.Revealed)

		auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Zero(auction.TotalRevealed)
		suite.Require().Zero(auction.HighestBid)
	})

	suite.Run("wrong amount", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.alice, 76, nonce)
		suite.Require().ErrorIs(err, types.ErrInvalidReveal)
	})

	suite.Run("revealed", func() {
		ctx := suite.at(endOffset)
		suite.Require().NoError(suite.primaryKeeper.RevealBid(ctx, addr, suite.alice, 75, nonce))

		bid, err := suite.primaryKeeper.GetBid(suite.ctx, bidAddr)
		suite.Require().NoError(err)
		suite.Require().Equal(types.BidRevealed, bid.State())
		suite.Require().Equal(uint64(75), bid.Amount)
		suite.Require().Equal(nonce, bid.Nonce)

		auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Equal(uint32(1), auction.TotalRevealed)
		suite.Require().Equal(uint64(75), auction.HighestBid)
		suite.Require().Equal(suite.alice, *auction.HighestBidder)

		events := ctx.EventManager().Events()
		suite.Require().Len(events, 1)
		suite.Require().Equal(types.EventTypeBidRevealed, events[0].Type)
		suite.requireAttribute(events[0], types.EventAttrAmount, "75")
	})

	suite.Run("revealed twice", func() {
		err := suite.primaryKeeper.RevealBid(suite.at(endOffset+1), addr, suite.alice, 75, nonce)
		suite.Require().ErrorIs(err, types.ErrAlreadyRevealed)

		auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
		suite.Require().NoError(err)
		suite.Require().Equal(uint32(1), auction.TotalRevealed)
	})
}

func (suite *KeeperTestSuite) TestRevealFailsForAnotherBidderOrAuction() {
	addr := suite.createAuction(1, 0)
	other := suite.createAuction(2, 0)
	nonce := nonceOf(3)

	// alice commits the digest bob would produce
	hash := types.ComputeBidHash(40, nonce, suite.bob, addr)
	_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.alice, hash)
	suite.Require().NoError(err)

	err = suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.alice, 40, nonce)
	suite.Require().ErrorIs(err, types.ErrInvalidReveal)

	// a digest bound to another auction does not open on this one
	hash = types.ComputeBidHash(40, nonce, suite.carol, other)
	_, err = suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.carol, hash)
	suite.Require().NoError(err)

	err = suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.carol, 40, nonce)
	suite.Require().ErrorIs(err, types.ErrInvalidReveal)
}

func mustAuction(suite *KeeperTestSuite, addr types.Address) types.Auction {
	auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)

	return auction
}
