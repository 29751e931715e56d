package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// x/sealedauction module sentinel errors
var (
	// temporal
	ErrStartInPast       = errorsmod.Register(ModuleName, 2, "auction start time cannot be in the past")
	ErrInvalidTimeRange  = errorsmod.Register(ModuleName, 3, "auction time range is invalid")
	ErrAuctionNotStarted = errorsmod.Register(ModuleName, 4, "auction has not started yet")
	ErrBiddingClosed     = errorsmod.Register(ModuleName, 5, "bidding phase has ended")
	ErrRevealNotStarted  = errorsmod.Register(ModuleName, 6, "reveal phase has not started yet")
	ErrRevealClosed      = errorsmod.Register(ModuleName, 7, "reveal phase has ended")
	ErrRevealStillOpen   = errorsmod.Register(ModuleName, 8, "reveal window is still open")

	// state conflict
	ErrAlreadyRevealed         = errorsmod.Register(ModuleName, 9, "bid was already revealed")
	ErrAuctionAlreadyFinalized = errorsmod.Register(ModuleName, 10, "auction was already finalized")
	ErrAuctionNotFinalized     = errorsmod.Register(ModuleName, 11, "auction must be finalized before settling")
	ErrBidNotCommitted         = errorsmod.Register(ModuleName, 12, "bid is not committed yet")
	ErrBidAlreadyCommitted     = errorsmod.Register(ModuleName, 13, "bid was already committed")

	// integrity
	ErrInvalidReveal               = errorsmod.Register(ModuleName, 14, "reveal payload does not match committed bid hash")
	ErrBidAccountMismatch          = errorsmod.Register(ModuleName, 15, "bid does not match expected auction/bidder")
	ErrPermissionAccountMismatch   = errorsmod.Register(ModuleName, 16, "permission account does not match derived address")
	ErrPermissionedAccountMismatch = errorsmod.Register(ModuleName, 17, "permissioned account does not match derived address")
	ErrInvalidValidator            = errorsmod.Register(ModuleName, 18, "validator missing or does not match requested validator")

	// authorization
	ErrUnauthorizedAuthority = errorsmod.Register(ModuleName, 19, "caller is not authorized to manage this account")

	// arithmetic
	ErrMathOverflow = errorsmod.Register(ModuleName, 20, "math overflow")

	// ledger
	ErrAuctionNotFound           = errorsmod.Register(ModuleName, 21, "auction not found")
	ErrBidNotFound               = errorsmod.Register(ModuleName, 22, "bid not found")
	ErrAuctionAlreadyExists      = errorsmod.Register(ModuleName, 23, "auction already exists")
	ErrBidAlreadyExists          = errorsmod.Register(ModuleName, 24, "bid already exists")
	ErrRecordDelegated           = errorsmod.Register(ModuleName, 25, "record is delegated and frozen on the primary ledger")
	ErrRecordCreationUnavailable = errorsmod.Register(ModuleName, 26, "records cannot be created in the delegated execution view")
	ErrInvalidAddress            = errorsmod.Register(ModuleName, 27, "invalid address")
	ErrInvalidRecord             = errorsmod.Register(ModuleName, 28, "invalid record encoding")
	ErrInvalidParams             = errorsmod.Register(ModuleName, 29, "invalid params")
	ErrInvalidView               = errorsmod.Register(ModuleName, 30, "operation is not available in this execution view")
)

// ErrorCategory groups the module errors by the kind of precondition they
// guard. None of them is retried by the module.
type ErrorCategory string

const (
	CategoryTemporal      ErrorCategory = "temporal"
	CategoryStateConflict ErrorCategory = "state-conflict"
	CategoryIntegrity     ErrorCategory = "integrity"
	CategoryAuthorization ErrorCategory = "authorization"
	CategoryArithmetic    ErrorCategory = "arithmetic"
	CategoryLedger        ErrorCategory = "ledger"
	CategoryExternal      ErrorCategory = "external"
)

var errorCategories = map[*errorsmod.Error]ErrorCategory{
	ErrStartInPast:       CategoryTemporal,
	ErrInvalidTimeRange:  CategoryTemporal,
	ErrAuctionNotStarted: CategoryTemporal,
	ErrBiddingClosed:     CategoryTemporal,
	ErrRevealNotStarted:  CategoryTemporal,
	ErrRevealClosed:      CategoryTemporal,
	ErrRevealStillOpen:   CategoryTemporal,

	ErrAlreadyRevealed:         CategoryStateConflict,
	ErrAuctionAlreadyFinalized: CategoryStateConflict,
	ErrAuctionNotFinalized:     CategoryStateConflict,
	ErrBidNotCommitted:         CategoryStateConflict,
	ErrBidAlreadyCommitted:     CategoryStateConflict,

	ErrInvalidReveal:               CategoryIntegrity,
	ErrBidAccountMismatch:          CategoryIntegrity,
	ErrPermissionAccountMismatch:   CategoryIntegrity,
	ErrPermissionedAccountMismatch: CategoryIntegrity,
	ErrInvalidValidator:            CategoryIntegrity,

	ErrUnauthorizedAuthority: CategoryAuthorization,

	ErrMathOverflow: CategoryArithmetic,

	ErrAuctionNotFound:           CategoryLedger,
	ErrBidNotFound:               CategoryLedger,
	ErrAuctionAlreadyExists:      CategoryLedger,
	ErrBidAlreadyExists:          CategoryLedger,
	ErrRecordDelegated:           CategoryLedger,
	ErrRecordCreationUnavailable: CategoryLedger,
	ErrInvalidAddress:            CategoryLedger,
	ErrInvalidRecord:             CategoryLedger,
	ErrInvalidParams:             CategoryLedger,
	ErrInvalidView:               CategoryLedger,
}

// Classify returns the category of err. Errors that do not originate from this
// module, such as collaborator failures, are CategoryExternal.
func Classify(err error) ErrorCategory {
	for sentinel, category := range errorCategories {
		if errors.Is(err, sentinel) {
			return category
		}
	}

	return CategoryExternal
}
