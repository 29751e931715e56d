package types

import "context"

// QueryServer is the sealedauction query service.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Auction(context.Context, *QueryAuctionRequest) (*QueryAuctionResponse, error)
	Auctions(context.Context, *QueryAuctionsRequest) (*QueryAuctionsResponse, error)
	Bid(context.Context, *QueryBidRequest) (*QueryBidResponse, error)
	BidsByAuction(context.Context, *QueryBidsByAuctionRequest) (*QueryBidsByAuctionResponse, error)
	AuctionAddress(context.Context, *QueryAuctionAddressRequest) (*QueryAddressResponse, error)
	BidAddress(context.Context, *QueryBidAddressRequest) (*QueryAddressResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryAuctionRequest looks an auction up either by Address or by the
// (Authority, AuctionID) pair it is derived from.
type QueryAuctionRequest struct {
	Address   string `json:"address,omitempty"`
	Authority string `json:"authority,omitempty"`
	AuctionID uint64 `json:"auction_id,omitempty"`
}

type QueryAuctionResponse struct {
	Address   Address      `json:"address"`
	Auction   Auction      `json:"auction"`
	Phase     AuctionPhase `json:"phase"`
	Delegated bool         `json:"delegated"`
	Settled   bool         `json:"settled"`
}

type QueryAuctionsRequest struct{}

type QueryAuctionsResponse struct {
	Auctions []AuctionRecord `json:"auctions"`
}

type QueryBidRequest struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
}

type QueryBidResponse struct {
	Address   Address  `json:"address"`
	Bid       Bid      `json:"bid"`
	State     BidState `json:"state"`
	Delegated bool     `json:"delegated"`
}

type QueryBidsByAuctionRequest struct {
	Auction string `json:"auction"`
}

type QueryBidsByAuctionResponse struct {
	Bids []BidRecord `json:"bids"`
}

type QueryAuctionAddressRequest struct {
	Authority string `json:"authority"`
	AuctionID uint64 `json:"auction_id"`
}

type QueryBidAddressRequest struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
}

type QueryAddressResponse struct {
	Address Address `json:"address"`
}
