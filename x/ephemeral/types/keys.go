package types

const (
	// ModuleName is the name of the ephemeral module
	ModuleName = "ephemeral"

	// StoreKey is the store key of the delegation registry.
	StoreKey = ModuleName
)

const (
	prefixDelegations = iota + 1
	prefixValidators
)

var (
	// KeyDelegations is the prefix of the delegation registry.
	KeyDelegations = []byte{prefixDelegations}
	// KeyValidators is the prefix of the registered remote operators.
	KeyValidators = []byte{prefixValidators}
)

// DelegationKey returns the registry key of the delegation of record.
func DelegationKey(record []byte) []byte {
	return append(append([]byte{}, KeyDelegations...), record...)
}

// ValidatorKey returns the registry key of validator.
func ValidatorKey(validator []byte) []byte {
	return append(append([]byte{}, KeyValidators...), validator...)
}
