package invoice

import "fmt"

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	// MissingField means a required key is absent from the source document.
	MissingField ErrorKind = "missing_field"
	// WrongType means a section has the wrong shape (e.g. items is not a list).
	WrongType ErrorKind = "wrong_type"
	// EmptyCollection means items is empty once blank entries are filtered.
	EmptyCollection ErrorKind = "empty_collection"
	// InvalidNumber means a numeric field failed to parse or is negative.
	InvalidNumber ErrorKind = "invalid_number"
)

// ValidationError reports a single field-level problem with the source
// document. Item is the 1-based index of the offending line item, or 0 when
// the error is not item-scoped.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Item  int
}

func (e *ValidationError) Error() string {
	if e.Item > 0 {
		return fmt.Sprintf("%s: item %d field %q", e.Kind, e.Item, e.Field)
	}
	return fmt.Sprintf("%s: field %q", e.Kind, e.Field)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Kind: MissingField, Field: field}
}

func wrongType(field string) *ValidationError {
	return &ValidationError{Kind: WrongType, Field: field}
}

func invalidNumber(field string, item int) *ValidationError {
	return &ValidationError{Kind: InvalidNumber, Field: field, Item: item}
}
