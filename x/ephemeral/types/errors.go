package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrUnauthorizedSigner = errorsmod.Register(ModuleName, 2, "signer seeds do not derive the record address")
	ErrRecordNotFound     = errorsmod.Register(ModuleName, 3, "record not found on the primary ledger")
	ErrAlreadyDelegated   = errorsmod.Register(ModuleName, 4, "record is already delegated")
	ErrNotDelegated       = errorsmod.Register(ModuleName, 5, "record is not delegated")
	ErrUnknownValidator   = errorsmod.Register(ModuleName, 6, "validator is not registered")
	ErrInvalidPayer       = errorsmod.Register(ModuleName, 7, "invalid payer")
	ErrInvalidDelegation  = errorsmod.Register(ModuleName, 8, "invalid delegation entry")
	ErrDuplicateRecord    = errorsmod.Register(ModuleName, 9, "record is listed more than once")
)
