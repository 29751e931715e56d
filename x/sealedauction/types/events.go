package types

// Event types and attributes
const (
	EventTypeAuctionCreated   = "auction_created"
	EventTypeBidInitialized   = "bid_initialized"
	EventTypeBidCommitted     = "bid_committed"
	EventTypeBidRevealed      = "bid_revealed"
	EventTypeAuctionFinalized = "auction_finalized"
	EventTypeAuctionSettled   = "auction_settled"
	EventTypeRecordDelegated  = "record_delegated"
	EventTypePermission       = "permission_requested"

	EventAttrAuction       = "auction"
	EventAttrAuthority     = "authority"
	EventAttrBid           = "bid"
	EventAttrBidder        = "bidder"
	EventAttrStartTs       = "start_ts"
	EventAttrEndTs         = "end_ts"
	EventAttrRevealEndTs   = "reveal_end_ts"
	EventAttrReservePrice  = "reserve_price"
	EventAttrAmount        = "amount"
	EventAttrWinner        = "winner"
	EventAttrHighestBid    = "highest_bid"
	EventAttrTotalBids     = "total_bids"
	EventAttrTotalRevealed = "total_revealed"
	EventAttrRecord        = "record"
	EventAttrValidator     = "validator"
	EventAttrPermission    = "permission"
	EventAttrController    = "controller"
	EventAttrView          = "view"
)
