package types

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DeliverResult is the outcome of a delivered message.
type DeliverResult struct {
	Height   int64
	Response any
	Events   sdk.Events
}

// Msg is a sealedauction transaction message.
type Msg interface {
	// Type returns the message route name used by the node and its clients.
	Type() string
	ValidateBasic() error
}

var (
	_ Msg = &MsgUpdateParams{}
	_ Msg = &MsgCreateAuction{}
	_ Msg = &MsgInitializeBid{}
	_ Msg = &MsgSubmitSealedBid{}
	_ Msg = &MsgSubmitSealedBidDelegated{}
	_ Msg = &MsgRevealBid{}
	_ Msg = &MsgFinalizeAuction{}
	_ Msg = &MsgCreateAuctionPermission{}
	_ Msg = &MsgCreateBidPermission{}
	_ Msg = &MsgDelegateAuction{}
	_ Msg = &MsgDelegateBid{}
	_ Msg = &MsgFinalizeAndSettle{}
)

// Message type names.
const (
	TypeMsgUpdateParams             = "update_params"
	TypeMsgCreateAuction            = "create_auction"
	TypeMsgInitializeBid            = "initialize_bid"
	TypeMsgSubmitSealedBid          = "submit_sealed_bid"
	TypeMsgSubmitSealedBidDelegated = "submit_sealed_bid_delegated"
	TypeMsgRevealBid                = "reveal_bid"
	TypeMsgFinalizeAuction          = "finalize_auction"
	TypeMsgCreateAuctionPermission  = "create_auction_permission"
	TypeMsgCreateBidPermission      = "create_bid_permission"
	TypeMsgDelegateAuction          = "delegate_auction"
	TypeMsgDelegateBid              = "delegate_bid"
	TypeMsgFinalizeAndSettle        = "finalize_and_settle"
)

// MsgServer is the sealedauction msg service.
type MsgServer interface {
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	CreateAuction(context.Context, *MsgCreateAuction) (*MsgCreateAuctionResponse, error)
	InitializeBid(context.Context, *MsgInitializeBid) (*MsgInitializeBidResponse, error)
	SubmitSealedBid(context.Context, *MsgSubmitSealedBid) (*MsgSubmitSealedBidResponse, error)
	SubmitSealedBidDelegated(context.Context, *MsgSubmitSealedBidDelegated) (*MsgSubmitSealedBidResponse, error)
	RevealBid(context.Context, *MsgRevealBid) (*MsgRevealBidResponse, error)
	FinalizeAuction(context.Context, *MsgFinalizeAuction) (*MsgFinalizeAuctionResponse, error)
	CreateAuctionPermission(context.Context, *MsgCreateAuctionPermission) (*MsgCreatePermissionResponse, error)
	CreateBidPermission(context.Context, *MsgCreateBidPermission) (*MsgCreatePermissionResponse, error)
	DelegateAuction(context.Context, *MsgDelegateAuction) (*MsgDelegateResponse, error)
	DelegateBid(context.Context, *MsgDelegateBid) (*MsgDelegateResponse, error)
	FinalizeAndSettle(context.Context, *MsgFinalizeAndSettle) (*MsgFinalizeAndSettleResponse, error)
}

// NewMsg returns an empty message of the given type.
func NewMsg(msgType string) (Msg, error) {
	switch msgType {
	case TypeMsgUpdateParams:
		return &MsgUpdateParams{}, nil
	case TypeMsgCreateAuction:
		return &MsgCreateAuction{}, nil
	case TypeMsgInitializeBid:
		return &MsgInitializeBid{}, nil
	case TypeMsgSubmitSealedBid:
		return &MsgSubmitSealedBid{}, nil
	case TypeMsgSubmitSealedBidDelegated:
		return &MsgSubmitSealedBidDelegated{}, nil
	case TypeMsgRevealBid:
		return &MsgRevealBid{}, nil
	case TypeMsgFinalizeAuction:
		return &MsgFinalizeAuction{}, nil
	case TypeMsgCreateAuctionPermission:
		return &MsgCreateAuctionPermission{}, nil
	case TypeMsgCreateBidPermission:
		return &MsgCreateBidPermission{}, nil
	case TypeMsgDelegateAuction:
		return &MsgDelegateAuction{}, nil
	case TypeMsgDelegateBid:
		return &MsgDelegateBid{}, nil
	case TypeMsgFinalizeAndSettle:
		return &MsgFinalizeAndSettle{}, nil
	default:
		return nil, fmt.Errorf("unknown %s message type %q", ModuleName, msgType)
	}
}

// MsgUpdateParams updates the module parameters. Only the module authority
// (typically governance) may send it.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgCreateAuction opens a new auction owned by Authority.
type MsgCreateAuction struct {
	Authority    string `json:"authority"`
	AuctionID    uint64 `json:"auction_id"`
	StartTs      int64  `json:"start_ts"`
	EndTs        int64  `json:"end_ts"`
	RevealEndTs  int64  `json:"reveal_end_ts"`
	ReservePrice uint64 `json:"reserve_price"`
}

type MsgCreateAuctionResponse struct {
	Auction string `json:"auction"`
}

// MsgInitializeBid provisions an empty bid so it can be committed after the
// auction has been delegated.
type MsgInitializeBid struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
}

type MsgInitializeBidResponse struct {
	Bid string `json:"bid"`
}

// MsgSubmitSealedBid creates and commits a bid in one step.
type MsgSubmitSealedBid struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
	BidHash Hash   `json:"bid_hash"`
}

type MsgSubmitSealedBidResponse struct {
	Bid string `json:"bid"`
}

// MsgSubmitSealedBidDelegated commits a previously provisioned bid.
type MsgSubmitSealedBidDelegated struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
	BidHash Hash   `json:"bid_hash"`
}

// MsgRevealBid discloses the amount and nonce behind a commitment.
type MsgRevealBid struct {
	Auction string `json:"auction"`
	Bidder  string `json:"bidder"`
	Amount  uint64 `json:"amount"`
	Nonce   Nonce  `json:"nonce"`
}

type MsgRevealBidResponse struct{}

// MsgFinalizeAuction closes an auction after its reveal window.
type MsgFinalizeAuction struct {
	Authority string `json:"authority"`
	Auction   string `json:"auction"`
}

type MsgFinalizeAuctionResponse struct {
	Winner     string `json:"winner,omitempty"`
	HighestBid uint64 `json:"highest_bid"`
}

// MsgCreateAuctionPermission registers the auction authority as controller of
// the auction record with the permission service.
type MsgCreateAuctionPermission struct {
	Auction    string `json:"auction"`
	Permission string `json:"permission"`
	Payer      string `json:"payer"`
}

// MsgCreateBidPermission registers the bidder as controller of the bid record
// with the permission service.
type MsgCreateBidPermission struct {
	Bid        string `json:"bid"`
	Permission string `json:"permission"`
	Payer      string `json:"payer"`
}

type MsgCreatePermissionResponse struct{}

// MsgDelegateAuction hands the auction record to the delegated execution view.
type MsgDelegateAuction struct {
	Payer     string `json:"payer"`
	Authority string `json:"authority"`
	AuctionID uint64 `json:"auction_id"`
	Validator string `json:"validator,omitempty"`
}

// MsgDelegateBid hands a bid record to the delegated execution view.
type MsgDelegateBid struct {
	Payer     string `json:"payer"`
	Auction   string `json:"auction"`
	Bidder    string `json:"bidder"`
	Validator string `json:"validator,omitempty"`
}

type MsgDelegateResponse struct {
	Record string `json:"record"`
}

// MsgFinalizeAndSettle commits a finalized auction back to the primary ledger
// and releases its delegation. Bids lists delegated bid records to reconcile
// in the same request.
type MsgFinalizeAndSettle struct {
	Authority string   `json:"authority"`
	Payer     string   `json:"payer"`
	Auction   string   `json:"auction"`
	Bids      []string `json:"bids,omitempty"`
}

type MsgFinalizeAndSettleResponse struct{}

func (m MsgUpdateParams) Type() string             { return TypeMsgUpdateParams }
func (m MsgCreateAuction) Type() string            { return TypeMsgCreateAuction }
func (m MsgInitializeBid) Type() string            { return TypeMsgInitializeBid }
func (m MsgSubmitSealedBid) Type() string          { return TypeMsgSubmitSealedBid }
func (m MsgSubmitSealedBidDelegated) Type() string { return TypeMsgSubmitSealedBidDelegated }
func (m MsgRevealBid) Type() string                { return TypeMsgRevealBid }
func (m MsgFinalizeAuction) Type() string          { return TypeMsgFinalizeAuction }
func (m MsgCreateAuctionPermission) Type() string  { return TypeMsgCreateAuctionPermission }
func (m MsgCreateBidPermission) Type() string      { return TypeMsgCreateBidPermission }
func (m MsgDelegateAuction) Type() string          { return TypeMsgDelegateAuction }
func (m MsgDelegateBid) Type() string              { return TypeMsgDelegateBid }
func (m MsgFinalizeAndSettle) Type() string        { return TypeMsgFinalizeAndSettle }

// ValidateBasic does a sanity check on the provided data.
func (m MsgUpdateParams) ValidateBasic() error {
	// the authority is a regular account, not a ledger address
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return errors.Wrapf(ErrInvalidAddress, "authority: %s", err)
	}

	if err := m.Params.Validate(); err != nil {
		return errors.Wrap(ErrInvalidParams, err.Error())
	}

	return nil
}

// ValidateBasic does a sanity check on the provided data. Clock dependent
// checks are left to the keeper.
func (m MsgCreateAuction) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}

	if !(m.StartTs < m.EndTs && m.EndTs < m.RevealEndTs) {
		return ErrInvalidTimeRange.Wrapf("start %d, end %d, reveal end %d", m.StartTs, m.EndTs, m.RevealEndTs)
	}

	return nil
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgInitializeBid) ValidateBasic() error {
	return validateAddresses("auction", m.Auction, "bidder", m.Bidder)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgSubmitSealedBid) ValidateBasic() error {
	return validateAddresses("auction", m.Auction, "bidder", m.Bidder)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgSubmitSealedBidDelegated) ValidateBasic() error {
	return validateAddresses("auction", m.Auction, "bidder", m.Bidder)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgRevealBid) ValidateBasic() error {
	return validateAddresses("auction", m.Auction, "bidder", m.Bidder)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgFinalizeAuction) ValidateBasic() error {
	return validateAddresses("authority", m.Authority, "auction", m.Auction)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgCreateAuctionPermission) ValidateBasic() error {
	return validateAddresses("auction", m.Auction, "permission", m.Permission, "payer", m.Payer)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgCreateBidPermission) ValidateBasic() error {
	return validateAddresses("bid", m.Bid, "permission", m.Permission, "payer", m.Payer)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgDelegateAuction) ValidateBasic() error {
	if err := validateAddresses("payer", m.Payer, "authority", m.Authority); err != nil {
		return err
	}

	return validateOptionalValidator(m.Validator)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgDelegateBid) ValidateBasic() error {
	if err := validateAddresses("payer", m.Payer, "auction", m.Auction, "bidder", m.Bidder); err != nil {
		return err
	}

	return validateOptionalValidator(m.Validator)
}

// ValidateBasic does a sanity check on the provided data.
func (m MsgFinalizeAndSettle) ValidateBasic() error {
	if err := validateAddresses("authority", m.Authority, "payer", m.Payer, "auction", m.Auction); err != nil {
		return err
	}

	auctionAddr, err := ParseAddress(m.Auction)
	if err != nil {
		return err
	}

	seen := make(map[Address]struct{}, len(m.Bids))
	for _, bid := range m.Bids {
		addr, err := ParseAddress(bid)
		if err != nil {
			return ErrInvalidAddress.Wrapf("bid: %s", err)
		}

		// the same bid may be spelled in several encodings
		if _, ok := seen[addr]; ok {
			return ErrInvalidAddress.Wrapf("duplicate bid %s", addr)
		}

		if addr.Equals(auctionAddr) {
			return ErrInvalidAddress.Wrapf("bid %s is the auction itself", addr)
		}

		seen[addr] = struct{}{}
	}

	return nil
}

// ParseOptionalValidator parses an optional validator address. An empty string
// means no validator is pinned.
func ParseOptionalValidator(s string) (*Address, error) {
	if s == "" {
		return nil, nil
	}

	addr, err := ParseAddress(s)
	if err != nil {
		return nil, ErrInvalidValidator.Wrap(err.Error())
	}

	return &addr, nil
}

func validateOptionalValidator(s string) error {
	_, err := ParseOptionalValidator(s)
	return err
}

func validateAddress(field, s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return errors.Wrapf(ErrInvalidAddress, "%s: %s", field, err)
	}

	if addr.Empty() {
		return ErrInvalidAddress.Wrapf("%s cannot be the zero address", field)
	}

	return nil
}

// validateAddresses validates (field, value) pairs.
func validateAddresses(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validateAddress(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}

	return nil
}
