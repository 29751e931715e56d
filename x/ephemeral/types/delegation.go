package types

import (
	"encoding/json"
	"fmt"

	sealedtypes "github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// Delegation is the registry entry of a delegated record.
type Delegation struct {
	Record sealedtypes.Address        `json:"record"`
	Owner  string                     `json:"owner"`
	Config sealedtypes.DelegateConfig `json:"config"`

	// DelegatedAt and LastCommitAt are unix milliseconds of block time.
	DelegatedAt  int64 `json:"delegated_at"`
	LastCommitAt int64 `json:"last_commit_at"`
}

// NextCommitAt returns when the record is next due for a periodic commit. The
// second return value is false for records that are only committed on request.
func (d Delegation) NextCommitAt() (int64, bool) {
	if d.Config.CommitOnRequestOnly() {
		return 0, false
	}

	last := d.LastCommitAt
	if last == 0 {
		last = d.DelegatedAt
	}

	return last + int64(d.Config.CommitFrequencyMs), true
}

// Validate performs basic validation of the entry.
func (d Delegation) Validate() error {
	if d.Record.Empty() {
		return fmt.Errorf("delegation record cannot be empty")
	}

	if d.Owner == "" {
		return fmt.Errorf("delegation of %s has no owner", d.Record)
	}

	if d.Config.Validator != nil && d.Config.Validator.Empty() {
		return fmt.Errorf("delegation of %s pins the zero validator", d.Record)
	}

	return nil
}

// Marshal encodes the entry for the registry.
func (d Delegation) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Unmarshal decodes an entry produced by Marshal.
func (d *Delegation) Unmarshal(bz []byte) error {
	if err := json.Unmarshal(bz, d); err != nil {
		return ErrInvalidDelegation.Wrap(err.Error())
	}

	return nil
}
