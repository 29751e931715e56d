package types

import (
	"encoding/json"
	"fmt"
)

// AuctionRecord is an auction together with the address it lives at.
type AuctionRecord struct {
	Address Address `json:"address"`
	Auction Auction `json:"auction"`
}

// BidRecord is a bid together with the address it lives at.
type BidRecord struct {
	Address Address `json:"address"`
	Bid     Bid     `json:"bid"`
}

// GenesisState is the sealedauction module genesis state.
type GenesisState struct {
	Params   Params          `json:"params"`
	Auctions []AuctionRecord `json:"auctions"`
	Bids     []BidRecord     `json:"bids"`
}

// NewGenesisState creates a new GenesisState instance.
func NewGenesisState(params Params, auctions []AuctionRecord, bids []BidRecord) *GenesisState {
	return &GenesisState{
		Params:   params,
		Auctions: auctions,
		Bids:     bids,
	}
}

// DefaultGenesisState returns the default GenesisState instance.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic validation of the sealedauction module genesis state.
// Every record must live at the address derived from its own fields and every
// bid must reference an auction present in the genesis.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	auctions := make(map[Address]struct{}, len(gs.Auctions))
	for _, rec := range gs.Auctions {
		if err := rec.Auction.ValidateBasic(); err != nil {
			return fmt.Errorf("auction %s: %w", rec.Address, err)
		}

		if expected := AuctionAddress(rec.Auction.Authority, rec.Auction.AuctionID); !expected.Equals(rec.Address) {
			return fmt.Errorf("auction %s is not at its derived address %s", rec.Address, expected)
		}

		if _, ok := auctions[rec.Address]; ok {
			return fmt.Errorf("duplicate auction %s", rec.Address)
		}
		auctions[rec.Address] = struct{}{}
	}

	bids := make(map[Address]struct{}, len(gs.Bids))
	for _, rec := range gs.Bids {
		if err := rec.Bid.ValidateBasic(); err != nil {
			return fmt.Errorf("bid %s: %w", rec.Address, err)
		}

		if expected := BidAddress(rec.Bid.Auction, rec.Bid.Bidder); !expected.Equals(rec.Address) {
			return fmt.Errorf("bid %s is not at its derived address %s", rec.Address, expected)
		}

		if _, ok := auctions[rec.Bid.Auction]; !ok {
			return fmt.Errorf("bid %s references unknown auction %s", rec.Address, rec.Bid.Auction)
		}

		if _, ok := bids[rec.Address]; ok {
			return fmt.Errorf("duplicate bid %s", rec.Address)
		}
		bids[rec.Address] = struct{}{}
	}

	return nil
}

// GetGenesisStateFromAppState returns x/sealedauction GenesisState given raw
// application genesis state.
func GetGenesisStateFromAppState(appState map[string]json.RawMessage) (GenesisState, error) {
	var genesisState GenesisState

	if appState[ModuleName] != nil {
		if err := json.Unmarshal(appState[ModuleName], &genesisState); err != nil {
			return GenesisState{}, fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err)
		}
	}

	return genesisState, nil
}
