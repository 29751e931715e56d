package types

// BidState is the lifecycle state of a bid, derived from its committed and
// revealed flags. A bid never moves backwards.
type BidState string

const (
	BidUninitialized BidState = "uninitialized"
	BidCommitted     BidState = "committed"
	BidRevealed      BidState = "revealed"
)

// Bid is the per (auction, bidder) record, stored at BidAddress(auction, bidder).
// Auction and Bidder are back-references only.
type Bid struct {
	Auction   Address `json:"auction"`
	Bidder    Address `json:"bidder"`
	BidHash   Hash    `json:"bid_hash"`
	Committed bool    `json:"committed"`
	Revealed  bool    `json:"revealed"`
	Amount    uint64  `json:"amount"`
	Nonce     Nonce   `json:"nonce"`
}

// NewBid returns an empty bid bound to (auction, bidder).
func NewBid(auction, bidder Address) Bid {
	return Bid{
		Auction: auction,
		Bidder:  bidder,
	}
}

// State returns the lifecycle state of the bid.
func (b Bid) State() BidState {
	switch {
	case b.Revealed:
		return BidRevealed
	case b.Committed:
		return BidCommitted
	default:
		return BidUninitialized
	}
}

// Commit stores the commitment and resets the reveal payload.
func (b *Bid) Commit(bidHash Hash) {
	b.BidHash = bidHash
	b.Committed = true
	b.Revealed = false
	b.Amount = 0
	b.Nonce = Nonce{}
}

// Reveal records a verified reveal.
func (b *Bid) Reveal(amount uint64, nonce Nonce) {
	b.Revealed = true
	b.Amount = amount
	b.Nonce = nonce
}

// Matches reports whether the bid back-references (auction, bidder).
func (b Bid) Matches(auction, bidder Address) bool {
	return b.Auction.Equals(auction) && b.Bidder.Equals(bidder)
}

// ValidateBasic performs stateless validation of a stored bid.
func (b Bid) ValidateBasic() error {
	if b.Auction.Empty() {
		return ErrInvalidAddress.Wrap("bid auction cannot be empty")
	}

	if b.Bidder.Empty() {
		return ErrInvalidAddress.Wrap("bid bidder cannot be empty")
	}

	if b.Revealed && !b.Committed {
		return ErrInvalidRecord.Wrap("bid revealed without being committed")
	}

	if !b.Committed && !b.BidHash.IsZero() {
		return ErrInvalidRecord.Wrap("uncommitted bid carries a hash")
	}

	return nil
}
