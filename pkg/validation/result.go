package validation

// FailureKind names the rule a value violated.
type FailureKind string

const (
	Required         FailureKind = "required"
	TooShort         FailureKind = "tooShort"
	TooLong          FailureKind = "tooLong"
	BelowMin         FailureKind = "belowMin"
	AboveMax         FailureKind = "aboveMax"
	BadFormat        FailureKind = "badFormat"
	DomainNotAllowed FailureKind = "domainNotAllowed"
	TooFewSelected   FailureKind = "tooFewSelected"
	TooManySelected  FailureKind = "tooManySelected"
	FileTooLarge     FailureKind = "fileTooLarge"
	UnknownFieldType FailureKind = "unknownFieldType"
)

// Kinds lists every failure kind in declaration order.
func Kinds() []FailureKind {
	return []FailureKind{
		Required, TooShort, TooLong, BelowMin, AboveMax, BadFormat,
		DomainNotAllowed, TooFewSelected, TooManySelected, FileTooLarge,
		UnknownFieldType,
	}
}

// Result is the outcome of validating one value. The zero value is not valid;
// use Ok for success.
type Result struct {
	Valid   bool        `json:"valid"`
	Kind    FailureKind `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Ok is the valid result.
func Ok() Result {
	return Result{Valid: true}
}

// Invalid builds a failed result.
func Invalid(kind FailureKind, message string) Result {
	return Result{Kind: kind, Message: message}
}

// Error implements error so failed results can travel through error paths.
func (r Result) Error() string {
	if r.Valid {
		return ""
	}
	if r.Message != "" {
		return r.Message
	}
	return string(r.Kind)
}
