package types

import (
	sealedtypes "github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

const (
	// ModuleName is the name of the permission module. Permission records are
	// derived under this namespace.
	ModuleName = sealedtypes.PermissionNamespace

	// StoreKey is the store key of the permission records.
	StoreKey = ModuleName
)

// KeyPermissions is the prefix of the permission records.
var KeyPermissions = []byte{0x01}

// PermissionKey returns the store key of the permission record at addr.
func PermissionKey(addr sealedtypes.Address) []byte {
	return append(append([]byte{}, KeyPermissions...), addr.Bytes()...)
}
