package keeper

import (
	"strconv"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/ephemeral/types"
	sealedtypes "github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

var _ sealedtypes.DelegationKeeper = Keeper{}

// Keeper coordinates records between the primary ledger and the delegated
// execution view. It owns the delegation registry and moves raw record bytes
// between the two record stores; it never decodes the records themselves.
type Keeper struct {
	storeKey     storetypes.StoreKey
	primaryKey   storetypes.StoreKey
	delegatedKey storetypes.StoreKey
}

// NewKeeper returns a coordinator over the registry at storeKey that moves
// records between the stores at primaryKey and delegatedKey.
func NewKeeper(storeKey, primaryKey, delegatedKey storetypes.StoreKey) Keeper {
	return Keeper{
		storeKey:     storeKey,
		primaryKey:   primaryKey,
		delegatedKey: delegatedKey,
	}
}

// Logger returns an ephemeral module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// RegisterValidator registers a remote operator records may be pinned to.
func (k Keeper) RegisterValidator(ctx sdk.Context, validator sealedtypes.Address) {
	ctx.KVStore(k.storeKey).Set(types.ValidatorKey(validator.Bytes()), []byte{1})
}

// IsValidator reports whether validator is a registered remote operator.
func (k Keeper) IsValidator(ctx sdk.Context, validator sealedtypes.Address) bool {
	return ctx.KVStore(k.storeKey).Has(types.ValidatorKey(validator.Bytes()))
}

// Delegate hands the record at addr over to the delegated view. The owner
// proves it controls the record by presenting the seeds the address derives
// from.
func (k Keeper) Delegate(
	ctx sdk.Context,
	owner string,
	record sealedtypes.Address,
	seeds [][]byte,
	cfg sealedtypes.DelegateConfig,
) error {
	if derived := sealedtypes.DeriveAddress(owner, seeds...); !derived.Equals(record) {
		return types.ErrUnauthorizedSigner.Wrapf("%s seeds derive %s, not %s", owner, derived, record)
	}

	bz := ctx.KVStore(k.primaryKey).Get(sealedtypes.RecordKey(record))
	if bz == nil {
		return types.ErrRecordNotFound.Wrapf("record %s", record)
	}

	if k.IsDelegated(ctx, record) {
		return types.ErrAlreadyDelegated.Wrapf("record %s", record)
	}

	if cfg.Validator != nil && !k.IsValidator(ctx, *cfg.Validator) {
		return types.ErrUnknownValidator.Wrapf("validator %s", cfg.Validator)
	}

	delegation := types.Delegation{
		Record:      record,
		Owner:       owner,
		Config:      cfg,
		DelegatedAt: ctx.BlockTime().UnixMilli(),
	}

	if err := k.setDelegation(ctx, delegation); err != nil {
		return err
	}

	ctx.KVStore(k.delegatedKey).Set(sealedtypes.RecordKey(record), bz)

	validator := ""
	if cfg.Validator != nil {
		validator = cfg.Validator.String()
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDelegate,
			sdk.NewAttribute(types.EventAttrRecord, record.String()),
			sdk.NewAttribute(types.EventAttrOwner, owner),
			sdk.NewAttribute(types.EventAttrValidator, validator),
			sdk.NewAttribute(types.EventAttrFrequency, strconv.FormatUint(uint64(cfg.CommitFrequencyMs), 10)),
		),
	)

	k.Logger(ctx).Info("record delegated", "record", record.String(), "owner", owner, "config", cfg.String())

	return nil
}

// Commit copies the delegated state of every record back to the primary
// ledger. Records stay delegated. Either every record is committed or none is.
func (k Keeper) Commit(ctx sdk.Context, records []sealedtypes.Address, payer sealedtypes.Address) error {
	delegations, err := k.prepareCommit(ctx, records, payer)
	if err != nil {
		return err
	}

	now := ctx.BlockTime().UnixMilli()
	for i, d := range delegations {
		k.commitRecord(ctx, d.Record, payer)

		delegations[i].LastCommitAt = now
		if err := k.setDelegation(ctx, delegations[i]); err != nil {
			return err
		}
	}

	return nil
}

// CommitAndUndelegate copies the delegated state of every record back to the
// primary ledger and releases the delegations. Either every record is settled
// or none is.
func (k Keeper) CommitAndUndelegate(ctx sdk.Context, records []sealedtypes.Address, payer sealedtypes.Address) error {
	delegations, err := k.prepareCommit(ctx, records, payer)
	if err != nil {
		return err
	}

	for _, d := range delegations {
		k.commitRecord(ctx, d.Record, payer)

		ctx.KVStore(k.delegatedKey).Delete(sealedtypes.RecordKey(d.Record))
		ctx.KVStore(k.storeKey).Delete(types.DelegationKey(d.Record.Bytes()))

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUndelegate,
				sdk.NewAttribute(types.EventAttrRecord, d.Record.String()),
				sdk.NewAttribute(types.EventAttrPayer, payer.String()),
			),
		)
	}

	k.Logger(ctx).Info("records undelegated", "records", len(delegations), "payer", payer.String())

	return nil
}

// CommitDue commits every periodically committed record whose next commit time
// has passed, earliest first, and returns the committed records.
func (k Keeper) CommitDue(ctx sdk.Context, payer sealedtypes.Address) ([]sealedtypes.Address, error) {
	delegations, err := k.GetDelegations(ctx)
	if err != nil {
		return nil, err
	}

	schedule := NewCommitSchedule()
	for _, d := range delegations {
		schedule.Insert(d)
	}

	due := schedule.Due(ctx.BlockTime().UnixMilli())
	if len(due) == 0 {
		return nil, nil
	}

	records := make([]sealedtypes.Address, len(due))
	for i, d := range due {
		records[i] = d.Record
	}

	if err := k.Commit(ctx, records, payer); err != nil {
		return nil, err
	}

	return records, nil
}

// IsDelegated reports whether record is currently delegated.
func (k Keeper) IsDelegated(ctx sdk.Context, record sealedtypes.Address) bool {
	return ctx.KVStore(k.storeKey).Has(types.DelegationKey(record.Bytes()))
}

// GetDelegation returns the registry entry of record.
func (k Keeper) GetDelegation(ctx sdk.Context, record sealedtypes.Address) (types.Delegation, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.DelegationKey(record.Bytes()))
	if bz == nil {
		return types.Delegation{}, types.ErrNotDelegated.Wrapf("record %s", record)
	}

	var d types.Delegation
	if err := d.Unmarshal(bz); err != nil {
		return types.Delegation{}, err
	}

	return d, nil
}

// GetDelegations returns every registry entry ordered by record address.
func (k Keeper) GetDelegations(ctx sdk.Context) ([]types.Delegation, error) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyDelegations)
	iterator := storetypes.KVStorePrefixIterator(store, []byte{})

	defer iterator.Close()

	var delegations []types.Delegation
	for ; iterator.Valid(); iterator.Next() {
		var d types.Delegation
		if err := d.Unmarshal(iterator.Value()); err != nil {
			return nil, err
		}

		delegations = append(delegations, d)
	}

	return delegations, nil
}

func (k Keeper) prepareCommit(ctx sdk.Context, records []sealedtypes.Address, payer sealedtypes.Address) ([]types.Delegation, error) {
	if payer.Empty() {
		return nil, types.ErrInvalidPayer.Wrap("payer cannot be the zero address")
	}

	seen := make(map[sealedtypes.Address]struct{}, len(records))
	delegations := make([]types.Delegation, len(records))
	for i, record := range records {
		if _, ok := seen[record]; ok {
			return nil, types.ErrDuplicateRecord.Wrapf("record %s", record)
		}
		seen[record] = struct{}{}

		d, err := k.GetDelegation(ctx, record)
		if err != nil {
			return nil, err
		}

		if !ctx.KVStore(k.delegatedKey).Has(sealedtypes.RecordKey(record)) {
			return nil, types.ErrRecordNotFound.Wrapf("delegated copy of %s", record)
		}

		delegations[i] = d
	}

	return delegations, nil
}

func (k Keeper) commitRecord(ctx sdk.Context, record, payer sealedtypes.Address) {
	key := sealedtypes.RecordKey(record)
	ctx.KVStore(k.primaryKey).Set(key, ctx.KVStore(k.delegatedKey).Get(key))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCommit,
			sdk.NewAttribute(types.EventAttrRecord, record.String()),
			sdk.NewAttribute(types.EventAttrPayer, payer.String()),
		),
	)
}

func (k Keeper) setDelegation(ctx sdk.Context, d types.Delegation) error {
	if err := d.Validate(); err != nil {
		return types.ErrInvalidDelegation.Wrap(err.Error())
	}

	bz, err := d.Marshal()
	if err != nil {
		return err
	}

	ctx.KVStore(k.storeKey).Set(types.DelegationKey(d.Record.Bytes()), bz)
	return nil
}
