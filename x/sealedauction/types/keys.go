package types

import (
	"encoding/binary"

	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName is the name of the sealedauction module
	ModuleName = "sealedauction"

	// StoreKey is the default store key for the sealedauction module. This is
	// the primary ledger view of the module's records.
	StoreKey = ModuleName

	// DelegatedStoreKey is the store key of the delegated execution view. Records
	// only live here while they are delegated.
	DelegatedStoreKey = ModuleName + "_delegated"

	// RouterKey is the message route for the sealedauction module
	RouterKey = ModuleName

	// QuerierRoute is the querier route for the sealedauction module
	QuerierRoute = ModuleName

	// PermissionNamespace is the namespace the permission service derives its
	// permission addresses under.
	PermissionNamespace = "permission"
)

const (
	prefixParams = iota + 1
	prefixRecords
)

var (
	// KeyParams is the store key for the sealedauction module's parameters.
	KeyParams = []byte{prefixParams}
	// KeyRecords is the prefix under which every address-keyed record is stored.
	KeyRecords = []byte{prefixRecords}
)

var (
	// AuctionSeed is the first derivation seed of every auction address.
	AuctionSeed = []byte("auction")
	// BidSeed is the first derivation seed of every bid address.
	BidSeed = []byte("bid")
	// PermissionSeed is the first derivation seed of every permission address.
	PermissionSeed = []byte("permission:")
)

// RecordKey returns the store key of the record living at addr.
func RecordKey(addr Address) []byte {
	return append(append([]byte{}, KeyRecords...), addr[:]...)
}

// AuctionSeeds returns the derivation seeds of the auction created by authority
// with the given id.
func AuctionSeeds(authority Address, auctionID uint64) [][]byte {
	id := make([]byte, 8)
	binary.LittleEndian.PutUint64(id, auctionID)

	return [][]byte{AuctionSeed, authority.Bytes(), id}
}

// BidSeeds returns the derivation seeds of the bid placed by bidder on auction.
func BidSeeds(auction, bidder Address) [][]byte {
	return [][]byte{BidSeed, auction.Bytes(), bidder.Bytes()}
}

// PermissionSeeds returns the derivation seeds of the permission record that
// guards permissioned.
func PermissionSeeds(permissioned Address) [][]byte {
	return [][]byte{PermissionSeed, permissioned.Bytes()}
}

// DeriveAddress derives a record address owned by namespace from seeds.
func DeriveAddress(namespace string, seeds ...[]byte) Address {
	var addr Address
	copy(addr[:], address.Module(namespace, seeds...))
	return addr
}

// AuctionAddress returns the address of the auction created by authority with
// the given id.
func AuctionAddress(authority Address, auctionID uint64) Address {
	return DeriveAddress(ModuleName, AuctionSeeds(authority, auctionID)...)
}

// BidAddress returns the address of the bid placed by bidder on auction.
func BidAddress(auction, bidder Address) Address {
	return DeriveAddress(ModuleName, BidSeeds(auction, bidder)...)
}

// PermissionAddress returns the address of the permission record guarding
// permissioned.
func PermissionAddress(permissioned Address) Address {
	return DeriveAddress(PermissionNamespace, PermissionSeeds(permissioned)...)
}
