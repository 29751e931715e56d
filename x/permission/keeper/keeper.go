package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/permission/types"
	sealedtypes "github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

var _ sealedtypes.PermissionKeeper = Keeper{}

// Keeper stores the permission records that guard records of other modules.
type Keeper struct {
	storeKey storetypes.StoreKey
}

func NewKeeper(storeKey storetypes.StoreKey) Keeper {
	return Keeper{storeKey: storeKey}
}

// Logger returns a permission module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// CreatePermission creates the permission record guarding permissioned. The
// owning module signs for permissioned by presenting the seeds its address is
// derived from.
func (k Keeper) CreatePermission(
	ctx sdk.Context,
	owner string,
	signerSeeds [][]byte,
	permissioned sealedtypes.Address,
	members []sealedtypes.Member,
) error {
	if derived := sealedtypes.DeriveAddress(owner, signerSeeds...); !derived.Equals(permissioned) {
		return types.ErrUnauthorizedSigner.Wrapf("%s seeds derive %s, not %s", owner, derived, permissioned)
	}

	addr := sealedtypes.PermissionAddress(permissioned)
	store := ctx.KVStore(k.storeKey)
	if store.Has(types.PermissionKey(addr)) {
		return types.ErrPermissionExists.Wrapf("permission %s of %s", addr, permissioned)
	}

	permission := types.Permission{
		Permissioned: permissioned,
		Owner:        owner,
		Members:      members,
	}

	if err := permission.Validate(); err != nil {
		return types.ErrInvalidPermission.Wrap(err.Error())
	}

	bz, err := permission.Marshal()
	if err != nil {
		return err
	}

	store.Set(types.PermissionKey(addr), bz)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePermission,
			sdk.NewAttribute(types.EventAttrPermission, addr.String()),
			sdk.NewAttribute(types.EventAttrPermissioned, permissioned.String()),
			sdk.NewAttribute(types.EventAttrOwner, owner),
			sdk.NewAttribute(types.EventAttrMembers, fmt.Sprint(len(members))),
		),
	)

	k.Logger(ctx).Debug("permission created", "permission", addr.String(), "permissioned", permissioned.String())

	return nil
}

// GetPermission returns the permission guarding permissioned.
func (k Keeper) GetPermission(ctx sdk.Context, permissioned sealedtypes.Address) (types.Permission, error) {
	addr := sealedtypes.PermissionAddress(permissioned)

	bz := ctx.KVStore(k.storeKey).Get(types.PermissionKey(addr))
	if bz == nil {
		return types.Permission{}, types.ErrPermissionNotFound.Wrapf("permission %s of %s", addr, permissioned)
	}

	var permission types.Permission
	if err := permission.Unmarshal(bz); err != nil {
		return types.Permission{}, err
	}

	return permission, nil
}

// HasAuthority reports whether who controls permissioned. Records without a
// permission have no controllers.
func (k Keeper) HasAuthority(ctx sdk.Context, permissioned, who sealedtypes.Address) bool {
	permission, err := k.GetPermission(ctx, permissioned)
	if err != nil {
		return false
	}

	return permission.HasAuthority(who)
}

// GetPermissions returns every stored permission ordered by permission address.
func (k Keeper) GetPermissions(ctx sdk.Context) ([]types.Permission, error) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyPermissions)
	iterator := storetypes.KVStorePrefixIterator(store, []byte{})

	defer iterator.Close()

	var permissions []types.Permission
	for ; iterator.Valid(); iterator.Next() {
		var permission types.Permission
		if err := permission.Unmarshal(iterator.Value()); err != nil {
			return nil, err
		}

		permissions = append(permissions, permission)
	}

	return permissions, nil
}
