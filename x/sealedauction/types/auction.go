package types

import (
	"encoding/json"
	"fmt"
)

// AuctionStatus is the persisted status of an auction. Settlement is not a
// stored status; a settled auction is a finalized auction that is no longer
// delegated.
type AuctionStatus uint8

const (
	StatusBidding AuctionStatus = iota
	StatusFinalized
)

// String implements fmt.Stringer.
func (s AuctionStatus) String() string {
	switch s {
	case StatusBidding:
		return "bidding"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// MarshalJSON renders the status by name.
func (s AuctionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a status by name.
func (s *AuctionStatus) UnmarshalJSON(bz []byte) error {
	var name string
	if err := json.Unmarshal(bz, &name); err != nil {
		return err
	}

	switch name {
	case "bidding":
		*s = StatusBidding
	case "finalized":
		*s = StatusFinalized
	default:
		return fmt.Errorf("unknown auction status %q", name)
	}

	return nil
}

// AuctionPhase is the time derived sub-phase of an auction. Only the status is
// persisted; the phase is recomputed against the clock on every read.
type AuctionPhase string

const (
	PhasePending          AuctionPhase = "pending"
	PhaseBidding          AuctionPhase = "bidding"
	PhaseReveal           AuctionPhase = "reveal"
	PhaseAwaitingFinalize AuctionPhase = "awaiting_finalize"
	PhaseFinalized        AuctionPhase = "finalized"
)

// Auction is the auction-wide record. There is exactly one per (authority,
// auction id) pair, stored at AuctionAddress(authority, auctionID).
type Auction struct {
	AuctionID     uint64        `json:"auction_id"`
	Authority     Address       `json:"authority"`
	StartTs       int64         `json:"start_ts"`
	EndTs         int64         `json:"end_ts"`
	RevealEndTs   int64         `json:"reveal_end_ts"`
	ReservePrice  uint64        `json:"reserve_price"`
	HighestBid    uint64        `json:"highest_bid"`
	HighestBidder *Address      `json:"highest_bidder,omitempty"`
	TotalBids     uint32        `json:"total_bids"`
	TotalRevealed uint32        `json:"total_revealed"`
	Status        AuctionStatus `json:"status"`
}

// NewAuction returns a freshly opened auction. Windows are validated
// separately by ValidateWindows.
func NewAuction(authority Address, auctionID uint64, startTs, endTs, revealEndTs int64, reservePrice uint64) Auction {
	return Auction{
		AuctionID:    auctionID,
		Authority:    authority,
		StartTs:      startTs,
		EndTs:        endTs,
		RevealEndTs:  revealEndTs,
		ReservePrice: reservePrice,
		Status:       StatusBidding,
	}
}

// ValidateWindows checks the creation time invariants against now.
func ValidateWindows(now, startTs, endTs, revealEndTs int64) error {
	if startTs < now {
		return ErrStartInPast.Wrapf("start %d is before now %d", startTs, now)
	}

	if endTs <= startTs {
		return ErrInvalidTimeRange.Wrapf("end %d must be after start %d", endTs, startTs)
	}

	if revealEndTs <= endTs {
		return ErrInvalidTimeRange.Wrapf("reveal end %d must be after end %d", revealEndTs, endTs)
	}

	return nil
}

// Phase returns the sub-phase of the auction at now.
func (a Auction) Phase(now int64) AuctionPhase {
	switch {
	case a.Status == StatusFinalized:
		return PhaseFinalized
	case now < a.StartTs:
		return PhasePending
	case now < a.EndTs:
		return PhaseBidding
	case now < a.RevealEndTs:
		return PhaseReveal
	default:
		return PhaseAwaitingFinalize
	}
}

// IsFinalized reports whether the auction reached its terminal status.
func (a Auction) IsFinalized() bool {
	return a.Status == StatusFinalized
}

// Winner returns the winning bidder. It is only meaningful once the auction is
// finalized; a finalized auction whose highest bid did not meet the reserve
// price has no winner.
func (a Auction) Winner() (Address, bool) {
	if a.Status != StatusFinalized || a.HighestBidder == nil {
		return ZeroAddress, false
	}

	return *a.HighestBidder, true
}

// ValidateBasic performs stateless validation of a stored auction.
func (a Auction) ValidateBasic() error {
	if a.Authority.Empty() {
		return ErrInvalidAddress.Wrap("auction authority cannot be empty")
	}

	if !(a.StartTs < a.EndTs && a.EndTs < a.RevealEndTs) {
		return ErrInvalidTimeRange.Wrapf("start %d, end %d, reveal end %d", a.StartTs, a.EndTs, a.RevealEndTs)
	}

	if a.TotalRevealed > a.TotalBids {
		return ErrInvalidRecord.Wrapf("revealed %d bids but only %d committed", a.TotalRevealed, a.TotalBids)
	}

	if a.Status != StatusBidding && a.Status != StatusFinalized {
		return ErrInvalidRecord.Wrapf("unknown status %d", a.Status)
	}

	return nil
}
