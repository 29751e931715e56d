package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrUnauthorizedSigner = errorsmod.Register(ModuleName, 2, "signer seeds do not derive the permissioned address")
	ErrPermissionExists   = errorsmod.Register(ModuleName, 3, "permission already exists")
	ErrPermissionNotFound = errorsmod.Register(ModuleName, 4, "permission not found")
	ErrInvalidPermission  = errorsmod.Register(ModuleName, 5, "invalid permission")
)
