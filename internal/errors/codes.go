// Package errors provides structured errors shared by the dice core and its adapters.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeTokenDecode marks an action token that could not be decoded.
	CodeTokenDecode Code = "TOKEN_DECODE"
	// CodeValidation marks a request rejected before any dice were drawn.
	CodeValidation Code = "VALIDATION"
	// CodeConfiguration marks a component built without a required collaborator.
	CodeConfiguration Code = "CONFIGURATION"
	// CodeStore marks a failure reported by the character store.
	CodeStore Code = "STORE"
	// CodeNotFound marks a missing record.
	CodeNotFound Code = "NOT_FOUND"
)

// UserMessage returns the text a chat caller should show instead of the raw error.
func (c Code) UserMessage() string {
	switch c {
	case CodeTokenDecode:
		return "This action is no longer valid."
	case CodeValidation:
		return "That request is not valid."
	case CodeNotFound:
		return "No character found. Use /rollstats first!"
	default:
		return "Something went wrong."
	}
}
