package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AddressLen is the width of every ledger address.
const AddressLen = 32

// Address is a fixed width ledger address. It identifies both records (auctions,
// bids, permissions) and the identities acting on them.
type Address [AddressLen]byte

// ZeroAddress is the all-zero address. It is never a valid identity.
var ZeroAddress Address

// AddressFromBytes converts bz into an Address.
func AddressFromBytes(bz []byte) (Address, error) {
	var addr Address
	if len(bz) != AddressLen {
		return addr, fmt.Errorf("address must be %d bytes, got %d", AddressLen, len(bz))
	}

	copy(addr[:], bz)
	return addr, nil
}

// ParseAddress parses either a bech32 or a hex encoded address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroAddress, fmt.Errorf("empty address")
	}

	if acc, err := sdk.AccAddressFromBech32(s); err == nil {
		return AddressFromBytes(acc)
	}

	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return ZeroAddress, fmt.Errorf("address %q is neither bech32 nor hex", s)
	}

	return AddressFromBytes(bz)
}

// MustParseAddress is ParseAddress that panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return addr
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	bz := make([]byte, AddressLen)
	copy(bz, a[:])
	return bz
}

// Empty reports whether a is the zero address.
func (a Address) Empty() bool {
	return a == ZeroAddress
}

// Equals reports whether a and other are the same address.
func (a Address) Equals(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// String returns the bech32 rendering of the address.
func (a Address) String() string {
	return sdk.AccAddress(a[:]).String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}

	*a = addr
	return nil
}
