package keeper_test

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/golang/mock/gomock"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

func (suite *KeeperTestSuite) TestDelegateAuction() {
	addr := suite.createAuction(1, 0)
	validator := suite.carol

	suite.Run("unknown auction", func() {
		_, err := suite.primaryKeeper.DelegateAuction(suite.at(0), suite.payer, suite.authority, 2, nil)
		suite.Require().ErrorIs(err, types.ErrAuctionNotFound)
	})

	suite.Run("zero validator", func() {
		zero := types.ZeroAddress
		_, err := suite.primaryKeeper.DelegateAuction(suite.at(0), suite.payer, suite.authority, 1, &zero)
		suite.Require().ErrorIs(err, types.ErrInvalidValidator)
	})

	suite.Run("validator outside the allow list", func() {
		suite.Require().NoError(suite.primaryKeeper.SetParams(suite.ctx, types.NewParams([]types.Address{suite.bob})))
		defer func() {
			suite.Require().NoError(suite.primaryKeeper.SetParams(suite.ctx, types.DefaultParams()))
		}()

		_, err := suite.primaryKeeper.DelegateAuction(suite.at(0), suite.payer, suite.authority, 1, &validator)
		suite.Require().ErrorIs(err, types.ErrInvalidValidator)
	})

	suite.Run("from the delegated view", func() {
		_, err := suite.delegatedKeeper.DelegateAuction(suite.at(0), suite.payer, suite.authority, 1, nil)
		suite.Require().ErrorIs(err, types.ErrInvalidView)
	})

	suite.Run("coordinator failure propagates", func() {
		boom := errors.New("coordinator unavailable")
		suite.delegationKeeper.EXPECT().
			Delegate(gomock.Any(), types.ModuleName, addr, gomock.Any(), gomock.Any()).
			Return(boom)

		_, err := suite.primaryKeeper.DelegateAuction(suite.at(0), suite.payer, suite.authority, 1, nil)
		suite.Require().ErrorIs(err, boom)
	})

	suite.Run("delegated with commit on request only", func() {
		ctx := suite.at(0)
		suite.delegationKeeper.EXPECT().
			Delegate(gomock.Any(), types.ModuleName, addr, types.AuctionSeeds(suite.authority, 1), types.NewDelegateConfig(&validator)).
			DoAndReturn(func(_ sdk.Context, _ string, _ types.Address, _ [][]byte, cfg types.DelegateConfig) error {
				suite.Require().True(cfg.CommitOnRequestOnly())
				return nil
			})

		got, err := suite.primaryKeeper.DelegateAuction(ctx, suite.payer, suite.authority, 1, &validator)
		suite.Require().NoError(err)
		suite.Require().Equal(addr, got)

		events := ctx.EventManager().Events()
		suite.Require().Len(events, 1)
		suite.Require().Equal(types.EventTypeRecordDelegated, events[0].Type)
		suite.requireAttribute(events[0], types.EventAttrValidator, validator.String())
	})
}

func (suite *KeeperTestSuite) TestDelegateBid() {
	addr := suite.createAuction(1, 0)

	_, err := suite.primaryKeeper.DelegateBid(suite.at(0), suite.payer, addr, suite.alice, nil)
	suite.Require().ErrorIs(err, types.ErrBidNotFound)

	bidAddr, err := suite.primaryKeeper.InitializeBid(suite.at(0), addr, suite.alice)
	suite.Require().NoError(err)

	suite.delegationKeeper.EXPECT().
		Delegate(gomock.Any(), types.ModuleName, bidAddr, types.BidSeeds(addr, suite.alice), types.NewDelegateConfig(nil)).
		Return(nil)

	got, err := suite.primaryKeeper.DelegateBid(suite.at(0), suite.payer, addr, suite.alice, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(bidAddr, got)
}

func (suite *KeeperTestSuite) TestFinalizeAndSettleNotFinalized() {
	addr := suite.createAuction(1, 0)
	suite.moveToDelegated(addr)

	before := suite.ctx.KVStore(suite.delegatedKey).Get(types.RecordKey(addr))

	// no CommitAndUndelegate expectation: any call fails the test
	ctx := suite.at(revealEndOffset)
	err := suite.delegatedKeeper.FinalizeAndSettle(ctx, suite.authority, suite.payer, addr, nil)
	suite.Require().ErrorIs(err, types.ErrAuctionNotFinalized)

	suite.Require().Equal(before, suite.ctx.KVStore(suite.delegatedKey).Get(types.RecordKey(addr)))
	suite.Require().Empty(ctx.EventManager().Events())
}

func (suite *KeeperTestSuite) TestFinalizeAndSettle() {
	addr := suite.createAuction(1, 100)
	suite.commit(suite.primaryKeeper, addr, suite.alice, 150, nonceOf(1))

	bidAddr := types.BidAddress(addr, suite.alice)
	suite.moveToDelegated(addr)
	suite.moveToDelegated(bidAddr)

	suite.reveal(suite.delegatedKeeper, addr, suite.alice, 150, nonceOf(1))

	_, err := suite.delegatedKeeper.FinalizeAuction(suite.at(revealEndOffset), suite.authority, addr)
	suite.Require().NoError(err)

	suite.Run("wrong authority", func() {
		err := suite.delegatedKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.bob, suite.payer, addr, nil)
		suite.Require().ErrorIs(err, types.ErrUnauthorizedAuthority)
	})

	suite.Run("primary copy is still bidding", func() {
		err := suite.primaryKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.authority, suite.payer, addr, nil)
		suite.Require().ErrorIs(err, types.ErrAuctionNotFinalized)
	})

	suite.Run("bid of another auction", func() {
		other := suite.createAuction(2, 0)
		suite.commit(suite.primaryKeeper, other, suite.bob, 1, nonceOf(2))
		foreign := types.BidAddress(other, suite.bob)
		suite.moveToDelegated(foreign)

		err := suite.delegatedKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.authority, suite.payer, addr, []types.Address{foreign})
		suite.Require().ErrorIs(err, types.ErrBidAccountMismatch)
	})

	suite.Run("bid listed twice", func() {
		err := suite.delegatedKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.authority, suite.payer, addr, []types.Address{bidAddr, bidAddr})
		suite.Require().ErrorIs(err, types.ErrBidAccountMismatch)
	})

	suite.Run("auction listed as a bid", func() {
		err := suite.delegatedKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.authority, suite.payer, addr, []types.Address{addr})
		suite.Require().ErrorIs(err, types.ErrBidAccountMismatch)
	})

	suite.Run("bid that was never delegated", func() {
		err := suite.delegatedKeeper.FinalizeAndSettle(suite.at(revealEndOffset), suite.authority, suite.payer, addr, []types.Address{types.BidAddress(addr, suite.carol)})
		suite.Require().ErrorIs(err, types.ErrBidNotFound)
	})

	suite.Run("coordinator failure leaves the auction finalized and delegated", func() {
		boom := errors.New("commit rejected")
		suite.delegationKeeper.EXPECT().
			CommitAndUndelegate(gomock.Any(), []types.Address{addr}, suite.payer).
			Return(boom)

		ctx := suite.at(revealEndOffset)
		err := suite.delegatedKeeper.FinalizeAndSettle(ctx, suite.authority, suite.payer, addr, nil)
		suite.Require().ErrorIs(err, boom)
		suite.Require().Empty(ctx.EventManager().Events())

		auction := mustDelegatedAuction(suite, addr)
		suite.Require().True(auction.IsFinalized())
		suite.Require().False(suite.delegatedKeeper.IsSettled(suite.ctx, addr, auction))
	})

	suite.Run("coordinator sees the final state", func() {
		ctx := suite.at(revealEndOffset + 1)
		suite.delegationKeeper.EXPECT().
			CommitAndUndelegate(gomock.Any(), []types.Address{addr, bidAddr}, suite.payer).
			DoAndReturn(func(cctx sdk.Context, records []types.Address, _ types.Address) error {
				// the coordinator sees the final state of every record
				auction, err := suite.delegatedKeeper.GetAuction(cctx, addr)
				suite.Require().NoError(err)
				suite.Require().True(auction.IsFinalized())
				suite.Require().Equal(suite.alice, *auction.HighestBidder)

				bid, err := suite.delegatedKeeper.GetBid(cctx, bidAddr)
				suite.Require().NoError(err)
				suite.Require().True(bid.Revealed)

				// there must not be any settlement event yet
				suite.Require().Empty(cctx.EventManager().Events())

				for _, record := range records {
					delete(suite.delegated, record)
				}

				return nil
			})

		err := suite.delegatedKeeper.FinalizeAndSettle(ctx, suite.authority, suite.payer, addr, []types.Address{bidAddr})
		suite.Require().NoError(err)

		events := ctx.EventManager().Events()
		suite.Require().Len(events, 1)
		suite.Require().Equal(types.EventTypeAuctionSettled, events[0].Type)
		suite.requireAttribute(events[0], types.EventAttrWinner, suite.alice.String())

		suite.Require().True(suite.delegatedKeeper.IsSettled(suite.ctx, addr, mustDelegatedAuction(suite, addr)))
	})
}

func mustDelegatedAuction(suite *KeeperTestSuite, addr types.Address) types.Auction {
	auction, err := suite.delegatedKeeper.GetAuction(suite.ctx, addr)
	suite.Require().NoError(err)

	return auction
}
