package types

// Event types and attributes
const (
	EventTypeDelegate   = "delegate"
	EventTypeCommit     = "commit"
	EventTypeUndelegate = "undelegate"

	EventAttrRecord    = "record"
	EventAttrOwner     = "owner"
	EventAttrValidator = "validator"
	EventAttrPayer     = "payer"
	EventAttrFrequency = "commit_frequency_ms"
)
