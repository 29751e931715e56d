package keeper_test

import (
	"math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

func (suite *KeeperTestSuite) TestCreateAuction() {
	testCases := []struct {
		name      string
		start     int64
		end       int64
		revealEnd int64
		expectErr error
	}{
		{
			name:      "valid windows",
			start:     startOffset,
			end:       endOffset,
			revealEnd: revealEndOffset,
		},
		{
			name:      "start now is allowed",
			start:     0,
			end:       1,
			revealEnd: 2,
		},
		{
			name:      "start in the past",
			start:     -1,
			end:       endOffset,
			revealEnd: revealEndOffset,
			expectErr: types.ErrStartInPast,
		},
		{
			name:      "end equals start",
			start:     startOffset,
			end:       startOffset,
			revealEnd: revealEndOffset,
			expectErr: types.ErrInvalidTimeRange,
		},
		{
			name:      "end before start",
			start:     startOffset,
			end:       startOffset - 1,
			revealEnd: revealEndOffset,
			expectErr: types.ErrInvalidTimeRange,
		},
		{
			name:      "reveal end equals end",
			start:     startOffset,
			end:       endOffset,
			revealEnd: endOffset,
			expectErr: types.ErrInvalidTimeRange,
		},
		{
			name:      "reveal end before end",
			start:     startOffset,
			end:       endOffset,
			revealEnd: endOffset - 1,
			expectErr: types.ErrInvalidTimeRange,
		},
		{
			name:      "past start is reported before a bad range",
			start:     -5,
			end:       -10,
			revealEnd: -20,
			expectErr: types.ErrStartInPast,
		},
	}

	for i, tc := range testCases {
		suite.Run(tc.name, func() {
			ctx := suite.at(0)
			addr, err := suite.primaryKeeper.CreateAuction(
				ctx,
				suite.authority,
				uint64(i),
				suite.t0+tc.start,
				suite.t0+tc.end,
				suite.t0+tc.revealEnd,
				100,
			)

			if tc.expectErr != nil {
				suite.Require().ErrorIs(err, tc.expectErr)
				suite.Require().False(suite.primaryKeeper.HasRecord(ctx, types.AuctionAddress(suite.authority, uint64(i))))
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.AuctionAddress(suite.authority, uint64(i)), addr)

			auction, err := suite.primaryKeeper.GetAuction(ctx, addr)
			suite.Require().NoError(err)
			suite.Require().Less(auction.StartTs, auction.EndTs)
			suite.Require().Less(auction.EndTs, auction.RevealEndTs)
			suite.Require().Equal(types.StatusBidding, auction.Status)
			suite.Require().Zero(auction.TotalBids)
			suite.Require().Zero(auction.TotalRevealed)
			suite.Require().Zero(auction.HighestBid)
			suite.Require().Nil(auction.HighestBidder)
			suite.Require().Equal(uint64(100), auction.ReservePrice)

			events := ctx.EventManager().Events()
			suite.Require().Len(events, 1)
			suite.Require().Equal(types.EventTypeAuctionCreated, events[0].Type)
		})
	}
}

func (suite *KeeperTestSuite) TestCreateAuctionTwice() {
	suite.createAuction(7, 0)

	_, err := suite.primaryKeeper.CreateAuction(
		suite.at(0),
		suite.authority,
		7,
		suite.t0+startOffset,
		suite.t0+endOffset,
		suite.t0+revealEndOffset,
		0,
	)
	suite.Require().ErrorIs(err, types.ErrAuctionAlreadyExists)

	// a different authority gets its own auction for the same id
	_, err = suite.primaryKeeper.CreateAuction(
		suite.at(0),
		suite.alice,
		7,
		suite.t0+startOffset,
		suite.t0+endOffset,
		suite.t0+revealEndOffset,
		0,
	)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestRecordCommitWindow() {
	testCases := []struct {
		name      string
		offset    int64
		expectErr error
	}{
		{"before start", startOffset - 1, types.ErrAuctionNotStarted},
		{"at start", startOffset, nil},
		{"just before end", endOffset - 1, nil},
		{"at end", endOffset, types.ErrBiddingClosed},
		{"after end", revealEndOffset, types.ErrBiddingClosed},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			auction := types.NewAuction(suite.authority, 1, suite.t0+startOffset, suite.t0+endOffset, suite.t0+revealEndOffset, 0)

			err := suite.primaryKeeper.RecordCommit(suite.at(tc.offset), &auction)
			if tc.expectErr != nil {
				suite.Require().ErrorIs(err, tc.expectErr)
				suite.Require().Zero(auction.TotalBids)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(uint32(1), auction.TotalBids)
		})
	}
}

func (suite *KeeperTestSuite) TestRecordCommitOverflow() {
	auction := types.NewAuction(suite.authority, 1, suite.t0+startOffset, suite.t0+endOffset, suite.t0+revealEndOffset, 0)
	auction.TotalBids = math.MaxUint32

	err := suite.primaryKeeper.RecordCommit(suite.at(startOffset), &auction)
	suite.Require().ErrorIs(err, types.ErrMathOverflow)
	suite.Require().Equal(uint32(math.MaxUint32), auction.TotalBids)
}

func (suite *KeeperTestSuite) TestRecordRevealWindow() {
	auctionAddr := types.AuctionAddress(suite.authority, 1)
	nonce := nonceOf(9)
	hash := types.ComputeBidHash(42, nonce, suite.alice, auctionAddr)

	testCases := []struct {
		name      string
		offset    int64
		expectErr error
	}{
		{"during bidding", endOffset - 1, types.ErrRevealNotStarted},
		{"at end", endOffset, nil},
		{"just before reveal end", revealEndOffset - 1, nil},
		{"at reveal end", revealEndOffset, types.ErrRevealClosed},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			auction := types.NewAuction(suite.authority, 1, suite.t0+startOffset, suite.t0+endOffset, suite.t0+revealEndOffset, 0)
			auction.TotalBids = 1

			err := suite.primaryKeeper.RecordReveal(suite.at(tc.offset), auctionAddr, &auction, suite.alice, 42, nonce, hash)
			if tc.expectErr != nil {
				suite.Require().ErrorIs(err, tc.expectErr)
				suite.Require().Zero(auction.TotalRevealed)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(uint32(1), auction.TotalRevealed)
			suite.Require().Equal(uint64(42), auction.HighestBid)
			suite.Require().Equal(suite.alice, *auction.HighestBidder)
		})
	}
}

func (suite *KeeperTestSuite) TestRecordRevealOverflow() {
	auctionAddr := types.AuctionAddress(suite.authority, 1)
	auction := types.NewAuction(suite.authority, 1, suite.t0+startOffset, suite.t0+endOffset, suite.t0+revealEndOffset, 0)
	auction.TotalRevealed = math.MaxUint32

	nonce := nonceOf(1)
	hash := types.ComputeBidHash(5, nonce, suite.alice, auctionAddr)

	err := suite.primaryKeeper.RecordReveal(suite.at(endOffset), auctionAddr, &auction, suite.alice, 5, nonce, hash)
	suite.Require().ErrorIs(err, types.ErrMathOverflow)
	suite.Require().Zero(auction.HighestBid)
}

func (suite *KeeperTestSuite) TestRevealTieKeepsEarliestBidder() {
	addr := suite.createAuction(1, 0)

	suite.commit(suite.primaryKeeper, addr, suite.alice, 100, nonceOf(1))
	suite.commit(suite.primaryKeeper, addr, suite.bob, 100, nonceOf(2))
	suite.commit(suite.primaryKeeper, addr, suite.carol, 60, nonceOf(3))

	suite.reveal(suite.primaryKeeper, addr, suite.bob, 100, nonceOf(2))
	suite.reveal(suite.primaryKeeper, addr, suite.alice, 100, nonceOf(1))
	suite.reveal(suite.primaryKeeper, addr, suite.carol, 60, nonceOf(3))

	auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), auction.HighestBid)
	suite.Require().Equal(suite.bob, *auction.HighestBidder)
	suite.Require().Equal(uint32(3), auction.TotalBids)
	suite.Require().Equal(uint32(3), auction.TotalRevealed)
}

func (suite *KeeperTestSuite) TestCountersTrackSuccessfulOperations() {
	addr := suite.createAuction(1, 0)

	bidders := []types.Address{suite.alice, suite.bob, suite.carol}
	for i, bidder := range bidders {
		suite.commit(suite.primaryKeeper, addr, bidder, uint64(10*(i+1)), nonceOf(byte(i)))
	}

	// a failing commit is not counted
	_, err := suite.primaryKeeper.SubmitSealedBid(suite.at(startOffset), addr, suite.alice, types.Hash{})
	suite.Require().ErrorIs(err, types.ErrBidAlreadyExists)

	// reveal in reverse order, one of them wrong
	suite.reveal(suite.primaryKeeper, addr, suite.carol, 30, nonceOf(2))
	err = suite.primaryKeeper.RevealBid(suite.at(endOffset), addr, suite.bob, 21, nonceOf(1))
	suite.Require().ErrorIs(err, types.ErrInvalidReveal)
	suite.reveal(suite.primaryKeeper, addr, suite.alice, 10, nonceOf(0))

	auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(3), auction.TotalBids)
	suite.Require().Equal(uint32(2), auction.TotalRevealed)
	suite.Require().Equal(uint64(30), auction.HighestBid)
	suite.Require().Equal(suite.carol, *auction.HighestBidder)
}

func (suite *KeeperTestSuite) TestFinalizeAuction() {
	addr := suite.createAuction(1, 0)
	suite.commit(suite.primaryKeeper, addr, suite.alice, 10, nonceOf(1))
	suite.reveal(suite.primaryKeeper, addr, suite.alice, 10, nonceOf(1))

	suite.Run("wrong authority", func() {
		_, err := suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.bob, addr)
		suite.Require().ErrorIs(err, types.ErrUnauthorizedAuthority)
	})

	suite.Run("reveal still open", func() {
		for _, offset := range []int64{0, startOffset, endOffset, revealEndOffset - 1} {
			_, err := suite.primaryKeeper.FinalizeAuction(suite.at(offset), suite.authority, addr)
			suite.Require().ErrorIs(err, types.ErrRevealStillOpen)
		}
	})

	suite.Run("unknown auction", func() {
		_, err := suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, types.AuctionAddress(suite.authority, 99))
		suite.Require().ErrorIs(err, types.ErrAuctionNotFound)
	})

	suite.Run("exactly at reveal end, once", func() {
		ctx := suite.at(revealEndOffset)
		auction, err := suite.primaryKeeper.FinalizeAuction(ctx, suite.authority, addr)
		suite.Require().NoError(err)
		suite.Require().True(auction.IsFinalized())

		winner, ok := auction.Winner()
		suite.Require().True(ok)
		suite.Require().Equal(suite.alice, winner)

		events := ctx.EventManager().Events()
		suite.Require().Len(events, 1)
		suite.Require().Equal(types.EventTypeAuctionFinalized, events[0].Type)
		suite.requireAttribute(events[0], types.EventAttrWinner, suite.alice.String())
		suite.requireAttribute(events[0], types.EventAttrHighestBid, "10")

		_, err = suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset+1), suite.authority, addr)
		suite.Require().ErrorIs(err, types.ErrAuctionAlreadyFinalized)
	})
}

func (suite *KeeperTestSuite) TestFinalizeFrozenWhileDelegated() {
	addr := suite.createAuction(1, 0)
	suite.moveToDelegated(addr)

	_, err := suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().ErrorIs(err, types.ErrRecordDelegated)

	_, err = suite.delegatedKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().NoError(err)

	// the primary copy is untouched until settlement
	auction, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().False(auction.IsFinalized())
}

func (suite *KeeperTestSuite) TestScenarioWinnerAboveReserve() {
	addr := suite.createAuction(1, 100)

	suite.commit(suite.primaryKeeper, addr, suite.alice, 50, nonceOf(0xa))
	suite.commit(suite.primaryKeeper, addr, suite.bob, 150, nonceOf(0xb))

	suite.reveal(suite.primaryKeeper, addr, suite.alice, 50, nonceOf(0xa))
	suite.reveal(suite.primaryKeeper, addr, suite.bob, 150, nonceOf(0xb))

	auction, err := suite.primaryKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(150), auction.HighestBid)
	suite.Require().NotNil(auction.HighestBidder)
	suite.Require().Equal(suite.bob, *auction.HighestBidder)
	suite.Require().Equal(uint32(2), auction.TotalBids)
	suite.Require().Equal(uint32(2), auction.TotalRevealed)
}

func (suite *KeeperTestSuite) TestScenarioBelowReserve() {
	addr := suite.createAuction(1, 100)

	suite.commit(suite.primaryKeeper, addr, suite.alice, 50, nonceOf(0xa))
	suite.commit(suite.primaryKeeper, addr, suite.bob, 150, nonceOf(0xb))

	suite.reveal(suite.primaryKeeper, addr, suite.alice, 50, nonceOf(0xa))

	// B never reveals
	ctx := suite.at(revealEndOffset)
	auction, err := suite.primaryKeeper.FinalizeAuction(ctx, suite.authority, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(50), auction.HighestBid)
	suite.Require().Nil(auction.HighestBidder)

	_, ok := auction.Winner()
	suite.Require().False(ok)

	stored, err := suite.primaryKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().Equal(auction, stored)

	suite.requireAttribute(ctx.EventManager().Events()[0], types.EventAttrWinner, "")
}

func (suite *KeeperTestSuite) TestIsSettled() {
	addr := suite.createAuction(1, 0)
	suite.moveToDelegated(addr)

	_, err := suite.delegatedKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().NoError(err)

	auction, err := suite.delegatedKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)
	suite.Require().False(suite.delegatedKeeper.IsSettled(suite.ctx, addr, auction))

	delete(suite.delegated, addr)
	suite.Require().True(suite.delegatedKeeper.IsSettled(suite.ctx, addr, auction))
}

func (suite *KeeperTestSuite) requireAttribute(event sdk.Event, key, value string) {
	for _, attr := range event.Attributes {
		if attr.Key == key {
			suite.Require().Equal(value, attr.Value)
			return
		}
	}

	suite.Failf("missing attribute", "event %s has no attribute %s", event.Type, key)
}
