package types

import "fmt"

// AuthorityFlag is the capability that lets a permission member act as a
// controller of the permissioned record.
const AuthorityFlag uint8 = 1 << 0

// Member is a single (identity, capability flags) entry of a permission.
type Member struct {
	Pubkey Address `json:"pubkey"`
	Flags  uint8   `json:"flags"`
}

// NewAuthorityMember returns a member holding only the authority capability.
func NewAuthorityMember(controller Address) Member {
	return Member{Pubkey: controller, Flags: AuthorityFlag}
}

// HasAuthority reports whether the member holds the authority capability.
func (m Member) HasAuthority() bool {
	return m.Flags&AuthorityFlag != 0
}

// DelegateConfig is the configuration a record is delegated with.
type DelegateConfig struct {
	// Validator optionally pins the record to a single remote operator.
	Validator *Address `json:"validator,omitempty"`

	// CommitFrequencyMs is the period at which the coordinator reconciles the
	// delegated copy back to the primary ledger. Zero means the record is only
	// committed on an explicit commit request.
	CommitFrequencyMs uint32 `json:"commit_frequency_ms"`
}

// NewDelegateConfig returns the configuration this module delegates with:
// commit only on explicit settlement, optionally pinned to validator.
func NewDelegateConfig(validator *Address) DelegateConfig {
	return DelegateConfig{
		Validator:         validator,
		CommitFrequencyMs: 0,
	}
}

// CommitOnRequestOnly reports whether the config disables periodic commits.
func (c DelegateConfig) CommitOnRequestOnly() bool {
	return c.CommitFrequencyMs == 0
}

// String implements fmt.Stringer.
func (c DelegateConfig) String() string {
	validator := "any"
	if c.Validator != nil {
		validator = c.Validator.String()
	}

	return fmt.Sprintf("validator=%s commit_frequency_ms=%d", validator, c.CommitFrequencyMs)
}

// ExecutionView identifies which copy of the records a keeper operates on.
type ExecutionView uint8

const (
	// ViewPrimary is the canonical ledger. Records are created here and are
	// frozen while delegated.
	ViewPrimary ExecutionView = iota
	// ViewDelegated is the remote execution context. Records only exist here
	// while delegated and cannot be created here.
	ViewDelegated
)

// String implements fmt.Stringer.
func (v ExecutionView) String() string {
	switch v {
	case ViewPrimary:
		return "primary"
	case ViewDelegated:
		return "delegated"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// ParseExecutionView parses the String form of a view.
func ParseExecutionView(s string) (ExecutionView, error) {
	switch s {
	case "primary":
		return ViewPrimary, nil
	case "delegated":
		return ViewDelegated, nil
	default:
		return 0, ErrInvalidView.Wrapf("unknown view %q", s)
	}
}
