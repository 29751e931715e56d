package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// Keeper is a view of the sealedauction records over one store. The same code
// runs against the primary ledger and against the delegated execution context;
// the view decides which operations are available.
type Keeper struct {
	storeKey storetypes.StoreKey
	view     types.ExecutionView

	permissionKeeper types.PermissionKeeper
	delegationKeeper types.DelegationKeeper

	// The address that is capable of executing a MsgUpdateParams message.
	// Typically this will be the governance module's address.
	authority string
}

// NewKeeper returns a keeper over the primary ledger view.
func NewKeeper(
	storeKey storetypes.StoreKey,
	permissionKeeper types.PermissionKeeper,
	delegationKeeper types.DelegationKeeper,
	authority string,
) Keeper {
	return NewKeeperWithView(storeKey, types.ViewPrimary, permissionKeeper, delegationKeeper, authority)
}

// NewDelegatedKeeper returns a keeper over the delegated execution view.
func NewDelegatedKeeper(
	storeKey storetypes.StoreKey,
	delegationKeeper types.DelegationKeeper,
	authority string,
) Keeper {
	return NewKeeperWithView(storeKey, types.ViewDelegated, nil, delegationKeeper, authority)
}

// NewKeeperWithView returns a keeper bound to the given execution view.
func NewKeeperWithView(
	storeKey storetypes.StoreKey,
	view types.ExecutionView,
	permissionKeeper types.PermissionKeeper,
	delegationKeeper types.DelegationKeeper,
	authority string,
) Keeper {
	// Ensure that the authority address is valid.
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(err)
	}

	if delegationKeeper == nil {
		panic("sealedauction keeper requires a delegation keeper")
	}

	return Keeper{
		storeKey:         storeKey,
		view:             view,
		permissionKeeper: permissionKeeper,
		delegationKeeper: delegationKeeper,
		authority:        authority,
	}
}

// Logger returns a sealedauction module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName, "view", k.view.String())
}

// GetAuthority returns the address that is capable of executing a MsgUpdateParams message.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// View returns the execution view the keeper operates on.
func (k Keeper) View() types.ExecutionView {
	return k.view
}

// GetParams returns the sealedauction module's parameters.
func (k Keeper) GetParams(ctx sdk.Context) (types.Params, error) {
	store := ctx.KVStore(k.storeKey)

	key := types.KeyParams
	bz := store.Get(key)

	if len(bz) == 0 {
		return types.Params{}, fmt.Errorf("no params found for the sealedauction module")
	}

	params := types.Params{}
	if err := params.Unmarshal(bz); err != nil {
		return types.Params{}, err
	}

	return params, nil
}

// SetParams sets the sealedauction module's parameters.
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	store := ctx.KVStore(k.storeKey)

	bz, err := params.Marshal()
	if err != nil {
		return err
	}

	store.Set(types.KeyParams, bz)

	return nil
}

// GetAuction returns the auction living at addr.
func (k Keeper) GetAuction(ctx sdk.Context, addr types.Address) (types.Auction, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.RecordKey(addr))
	if bz == nil {
		return types.Auction{}, types.ErrAuctionNotFound.Wrapf("no auction at %s in the %s view", addr, k.view)
	}

	var auction types.Auction
	if err := auction.Unmarshal(bz); err != nil {
		return types.Auction{}, err
	}

	return auction, nil
}

// SetAuction writes the auction at addr.
func (k Keeper) SetAuction(ctx sdk.Context, addr types.Address, auction types.Auction) {
	ctx.KVStore(k.storeKey).Set(types.RecordKey(addr), auction.Marshal())
}

// GetBid returns the bid living at addr.
func (k Keeper) GetBid(ctx sdk.Context, addr types.Address) (types.Bid, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.RecordKey(addr))
	if bz == nil {
		return types.Bid{}, types.ErrBidNotFound.Wrapf("no bid at %s in the %s view", addr, k.view)
	}

	var bid types.Bid
	if err := bid.Unmarshal(bz); err != nil {
		return types.Bid{}, err
	}

	return bid, nil
}

// SetBid writes the bid at addr.
func (k Keeper) SetBid(ctx sdk.Context, addr types.Address, bid types.Bid) {
	ctx.KVStore(k.storeKey).Set(types.RecordKey(addr), bid.Marshal())
}

// HasRecord reports whether any record lives at addr in this view.
func (k Keeper) HasRecord(ctx sdk.Context, addr types.Address) bool {
	return ctx.KVStore(k.storeKey).Has(types.RecordKey(addr))
}

// GetAuctions returns every auction stored in this view.
func (k Keeper) GetAuctions(ctx sdk.Context) (auctions []types.AuctionRecord, err error) {
	err = k.iterateRecords(ctx, types.RecordKindAuction, func(addr types.Address, bz []byte) error {
		var auction types.Auction
		if err := auction.Unmarshal(bz); err != nil {
			return err
		}

		auctions = append(auctions, types.AuctionRecord{Address: addr, Auction: auction})
		return nil
	})

	return
}

// GetBids returns every bid stored in this view.
func (k Keeper) GetBids(ctx sdk.Context) (bids []types.BidRecord, err error) {
	err = k.iterateRecords(ctx, types.RecordKindBid, func(addr types.Address, bz []byte) error {
		var bid types.Bid
		if err := bid.Unmarshal(bz); err != nil {
			return err
		}

		bids = append(bids, types.BidRecord{Address: addr, Bid: bid})
		return nil
	})

	return
}

// GetBidsByAuction returns every bid in this view that references auction.
func (k Keeper) GetBidsByAuction(ctx sdk.Context, auction types.Address) ([]types.BidRecord, error) {
	all, err := k.GetBids(ctx)
	if err != nil {
		return nil, err
	}

	var bids []types.BidRecord
	for _, rec := range all {
		if rec.Bid.Auction.Equals(auction) {
			bids = append(bids, rec)
		}
	}

	return bids, nil
}

func (k Keeper) iterateRecords(ctx sdk.Context, kind types.RecordKind, cb func(types.Address, []byte) error) error {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyRecords)
	iterator := storetypes.KVStorePrefixIterator(store, []byte{})

	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		got, err := types.KindOf(iterator.Value())
		if err != nil {
			return err
		}

		if got != kind {
			continue
		}

		addr, err := types.AddressFromBytes(iterator.Key())
		if err != nil {
			return types.ErrInvalidRecord.Wrap(err.Error())
		}

		if err := cb(addr, iterator.Value()); err != nil {
			return err
		}
	}

	return nil
}

// IsDelegated reports whether the record at addr is currently delegated.
func (k Keeper) IsDelegated(ctx sdk.Context, addr types.Address) bool {
	return k.delegationKeeper.IsDelegated(ctx, addr)
}

// ensureWritable fails if the record at addr cannot be mutated through this
// view. The primary copy of a delegated record is frozen until settlement.
func (k Keeper) ensureWritable(ctx sdk.Context, addr types.Address) error {
	if k.view == types.ViewPrimary && k.IsDelegated(ctx, addr) {
		return types.ErrRecordDelegated.Wrapf("%s must be mutated through the delegated view", addr)
	}

	return nil
}

// ensureCanCreate fails if records cannot be created through this view.
func (k Keeper) ensureCanCreate() error {
	if k.view != types.ViewPrimary {
		return types.ErrRecordCreationUnavailable
	}

	return nil
}

// now is the trusted clock every window check reads.
func now(ctx sdk.Context) int64 {
	return ctx.BlockTime().Unix()
}
