package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PermissionKeeper defines the contract required from the permission service.
// The module never implements it; it only derives the right addresses and
// presents the derivation seeds of the record it owns as signing proof.
type PermissionKeeper interface {
	CreatePermission(ctx sdk.Context, owner string, signerSeeds [][]byte, permissioned Address, members []Member) error
}

// DelegationKeeper defines the contract required from the delegation/commit
// coordinator that moves records between the primary ledger and the delegated
// execution view.
type DelegationKeeper interface {
	Delegate(ctx sdk.Context, owner string, record Address, seeds [][]byte, cfg DelegateConfig) error
	CommitAndUndelegate(ctx sdk.Context, records []Address, payer Address) error
	IsDelegated(ctx sdk.Context, record Address) bool
}
