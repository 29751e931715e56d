package types

import (
	"encoding/json"
	"fmt"
)

var (
	// DefaultAllowedValidators is empty: any named validator is accepted.
	DefaultAllowedValidators []Address
)

// Params defines the sealedauction module parameters.
type Params struct {
	// AllowedValidators restricts the remote operators records may be pinned to
	// on delegation. An empty list accepts any non-zero validator.
	AllowedValidators []Address `json:"allowed_validators"`
}

// NewParams returns a new Params instance with the provided values.
func NewParams(allowedValidators []Address) Params {
	return Params{
		AllowedValidators: allowedValidators,
	}
}

// DefaultParams returns the default x/sealedauction parameters.
func DefaultParams() Params {
	return NewParams(DefaultAllowedValidators)
}

// Validate performs basic validation on the parameters.
func (p Params) Validate() error {
	seen := make(map[Address]struct{}, len(p.AllowedValidators))
	for _, v := range p.AllowedValidators {
		if v.Empty() {
			return fmt.Errorf("allowed validator cannot be the zero address")
		}

		if _, ok := seen[v]; ok {
			return fmt.Errorf("duplicate allowed validator %s", v)
		}
		seen[v] = struct{}{}
	}

	return nil
}

// ValidatorAllowed reports whether records may be pinned to validator.
func (p Params) ValidatorAllowed(validator Address) bool {
	if validator.Empty() {
		return false
	}

	if len(p.AllowedValidators) == 0 {
		return true
	}

	for _, v := range p.AllowedValidators {
		if v.Equals(validator) {
			return true
		}
	}

	return false
}

// Marshal encodes the params for storage.
func (p Params) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal decodes params produced by Marshal.
func (p *Params) Unmarshal(bz []byte) error {
	return json.Unmarshal(bz, p)
}
