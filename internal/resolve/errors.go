package resolve

import (
	"errors"
	"fmt"
)

// Kind classifies why a citation could not be resolved.
type Kind string

// Failure kinds.
const (
	KindEmptyField             Kind = "empty_field"
	KindUnknownJournal         Kind = "unknown_journal"
	KindInvalidFormat          Kind = "invalid_format"
	KindConfigurationIntegrity Kind = "configuration_integrity"
	KindUnsupportedAction      Kind = "unsupported_action"
	KindUnsupportedMethod      Kind = "unsupported_method"
)

// Input fields.
const (
	FieldJournal = "journal"
	FieldVolume  = "volume"
	FieldPage    = "page"
	FieldAction  = "action"
)

// Error is a resolution failure. Message is meant for end users.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func newError(kind Kind, field, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a resolution error, or "" for other errors.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}

// IsKind reports whether err is a resolution error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsUserError reports whether err was caused by the request rather than by the deployment.
func IsUserError(err error) bool {
	switch KindOf(err) {
	case KindEmptyField, KindUnknownJournal, KindInvalidFormat, KindUnsupportedAction:
		return true
	}
	return false
}
