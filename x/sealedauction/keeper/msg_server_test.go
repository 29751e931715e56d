package keeper_test

import (
	"math/rand"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/skip-mev/sealed-auction/testutils"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

func (suite *KeeperTestSuite) TestMsgUpdateParams() {
	rng := rand.New(rand.NewSource(time.Now().Unix()))
	account := testutils.RandomAccounts(rng, 1)[0]

	testCases := []struct {
		name string
		msg  *types.MsgUpdateParams

		pass      bool
		passBasic bool
	}{
		{
			name: "duplicate allowed validators",
			msg: &types.MsgUpdateParams{
				Authority: suite.authorityAccount.String(),
				Params:    types.NewParams([]types.Address{suite.carol, suite.carol}),
			},
			passBasic: false,
			pass:      true,
		},
		{
			name: "invalid authority address",
			msg: &types.MsgUpdateParams{
				Authority: account.Address.String(),
				Params:    types.NewParams([]types.Address{suite.carol}),
			},
			passBasic: true,
			pass:      false,
		},
		{
			name: "valid update",
			msg: &types.MsgUpdateParams{
				Authority: suite.authorityAccount.String(),
				Params:    types.NewParams([]types.Address{suite.carol}),
			},
			passBasic: true,
			pass:      true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			if !tc.passBasic {
				suite.Require().Error(tc.msg.ValidateBasic())
			}

			_, err := suite.msgServer.UpdateParams(suite.ctx, tc.msg)
			if tc.pass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *KeeperTestSuite) TestMsgServerAuctionLifecycle() {
	createResp, err := suite.msgServer.CreateAuction(suite.at(0), &types.MsgCreateAuction{
		Authority:    suite.authority.String(),
		AuctionID:    3,
		StartTs:      suite.t0 + startOffset,
		EndTs:        suite.t0 + endOffset,
		RevealEndTs:  suite.t0 + revealEndOffset,
		ReservePrice: 100,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(types.AuctionAddress(suite.authority, 3).String(), createResp.Auction)

	addr := types.MustParseAddress(createResp.Auction)
	nonceA, nonceB := nonceOf(0xa), nonceOf(0xb)

	for _, bid := range []struct {
		bidder types.Address
		amount uint64
		nonce  types.Nonce
	}{
		{suite.alice, 50, nonceA},
		{suite.bob, 150, nonceB},
	} {
		resp, err := suite.msgServer.SubmitSealedBid(suite.at(startOffset), &types.MsgSubmitSealedBid{
			Auction: createResp.Auction,
			Bidder:  bid.bidder.String(),
			BidHash: types.ComputeBidHash(bid.amount, bid.nonce, bid.bidder, addr),
		})
		suite.Require().NoError(err)
		suite.Require().Equal(types.BidAddress(addr, bid.bidder).String(), resp.Bid)
	}

	_, err = suite.msgServer.RevealBid(suite.at(endOffset), &types.MsgRevealBid{
		Auction: createResp.Auction,
		Bidder:  suite.alice.String(),
		Amount:  50,
		Nonce:   nonceA,
	})
	suite.Require().NoError(err)

	_, err = suite.msgServer.RevealBid(suite.at(endOffset), &types.MsgRevealBid{
		Auction: createResp.Auction,
		Bidder:  suite.bob.String(),
		Amount:  150,
		Nonce:   nonceB,
	})
	suite.Require().NoError(err)

	finalizeResp, err := suite.msgServer.FinalizeAuction(suite.at(revealEndOffset), &types.MsgFinalizeAuction{
		Authority: suite.authority.String(),
		Auction:   createResp.Auction,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(suite.bob.String(), finalizeResp.Winner)
	suite.Require().Equal(uint64(150), finalizeResp.HighestBid)
}

func (suite *KeeperTestSuite) TestMsgServerDelegatedFlow() {
	addr := suite.createAuction(1, 0)

	initResp, err := suite.msgServer.InitializeBid(suite.at(0), &types.MsgInitializeBid{
		Auction: addr.String(),
		Bidder:  suite.alice.String(),
	})
	suite.Require().NoError(err)
	bidAddr := types.MustParseAddress(initResp.Bid)

	suite.delegationKeeper.EXPECT().
		Delegate(gomock.Any(), types.ModuleName, addr, gomock.Any(), types.NewDelegateConfig(nil)).
		Return(nil)
	suite.delegationKeeper.EXPECT().
		Delegate(gomock.Any(), types.ModuleName, bidAddr, gomock.Any(), types.NewDelegateConfig(nil)).
		Return(nil)

	delegateResp, err := suite.msgServer.DelegateAuction(suite.at(0), &types.MsgDelegateAuction{
		Payer:     suite.payer.String(),
		Authority: suite.authority.String(),
		AuctionID: 1,
	})
	suite.Require().NoError(err)
	suite.Require().Equal(addr.String(), delegateResp.Record)

	delegateResp, err = suite.msgServer.DelegateBid(suite.at(0), &types.MsgDelegateBid{
		Payer:   suite.payer.String(),
		Auction: addr.String(),
		Bidder:  suite.alice.String(),
	})
	suite.Require().NoError(err)
	suite.Require().Equal(bidAddr.String(), delegateResp.Record)

	suite.moveToDelegated(addr)
	suite.moveToDelegated(bidAddr)

	hash := types.ComputeBidHash(20, nonceOf(4), suite.alice, addr)
	_, err = suite.delegatedServer.SubmitSealedBidDelegated(suite.at(startOffset), &types.MsgSubmitSealedBidDelegated{
		Auction: addr.String(),
		Bidder:  suite.alice.String(),
		BidHash: hash,
	})
	suite.Require().NoError(err)

	_, err = suite.delegatedServer.RevealBid(suite.at(endOffset), &types.MsgRevealBid{
		Auction: addr.String(),
		Bidder:  suite.alice.String(),
		Amount:  20,
		Nonce:   nonceOf(4),
	})
	suite.Require().NoError(err)

	_, err = suite.delegatedServer.FinalizeAuction(suite.at(revealEndOffset), &types.MsgFinalizeAuction{
		Authority: suite.authority.String(),
		Auction:   addr.String(),
	})
	suite.Require().NoError(err)

	suite.delegationKeeper.EXPECT().
		CommitAndUndelegate(gomock.Any(), []types.Address{addr, bidAddr}, suite.payer).
		Return(nil)

	_, err = suite.delegatedServer.FinalizeAndSettle(suite.at(revealEndOffset), &types.MsgFinalizeAndSettle{
		Authority: suite.authority.String(),
		Payer:     suite.payer.String(),
		Auction:   addr.String(),
		Bids:      []string{bidAddr.String()},
	})
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestMsgServerRejectsBadAddresses() {
	_, err := suite.msgServer.RevealBid(suite.at(endOffset), &types.MsgRevealBid{
		Auction: "not-an-address",
		Bidder:  suite.alice.String(),
	})
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)

	_, err = suite.msgServer.DelegateAuction(suite.at(0), &types.MsgDelegateAuction{
		Payer:     suite.payer.String(),
		Authority: suite.authority.String(),
		Validator: "zz",
	})
	suite.Require().ErrorIs(err, types.ErrInvalidValidator)
}
