package types

import (
	"encoding/json"
	"fmt"

	sealedtypes "github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// Permission lists the identities allowed to act on a permissioned record.
type Permission struct {
	Permissioned sealedtypes.Address  `json:"permissioned"`
	Owner        string               `json:"owner"`
	Members      []sealedtypes.Member `json:"members"`
}

// Validate performs basic validation of the permission.
func (p Permission) Validate() error {
	if p.Permissioned.Empty() {
		return fmt.Errorf("permissioned address cannot be empty")
	}

	if len(p.Members) == 0 {
		return fmt.Errorf("permission of %s has no members", p.Permissioned)
	}

	seen := make(map[sealedtypes.Address]struct{}, len(p.Members))
	for _, m := range p.Members {
		if m.Pubkey.Empty() {
			return fmt.Errorf("permission of %s lists the zero address", p.Permissioned)
		}

		if _, ok := seen[m.Pubkey]; ok {
			return fmt.Errorf("permission of %s lists %s twice", p.Permissioned, m.Pubkey)
		}
		seen[m.Pubkey] = struct{}{}
	}

	return nil
}

// HasAuthority reports whether who holds the authority capability.
func (p Permission) HasAuthority(who sealedtypes.Address) bool {
	for _, m := range p.Members {
		if m.Pubkey.Equals(who) && m.HasAuthority() {
			return true
		}
	}

	return false
}

// Marshal encodes the permission for the store.
func (p Permission) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal decodes a permission produced by Marshal.
func (p *Permission) Unmarshal(bz []byte) error {
	if err := json.Unmarshal(bz, p); err != nil {
		return ErrInvalidPermission.Wrap(err.Error())
	}

	return nil
}
