package errors

import (
	"fmt"
)

var ErrMalformedDocument = fmt.Errorf("malformed document")
var ErrUnknownEntityKind = fmt.Errorf("unknown entity kind")
var ErrUnrecognizedValueKind = fmt.Errorf("unrecognized value kind")
var ErrUnrecognizedSnakKind = fmt.Errorf("unrecognized snak kind")
var ErrMalformedValue = fmt.Errorf("malformed value")
var ErrDuplicateLanguageEntry = fmt.Errorf("duplicate language entry")
var ErrDuplicateSiteLink = fmt.Errorf("duplicate site link")
var ErrDuplicateStatementID = fmt.Errorf("duplicate statement id")
var ErrInvalidValueRange = fmt.Errorf("invalid value range")
var ErrInvalidEntityID = fmt.Errorf("invalid entity id")
var ErrNoValue = fmt.Errorf("no value")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func newError(target error, format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: target,
	}
}

func NewMalformedDocumentError(format string, args ...any) error {
	return newError(ErrMalformedDocument, format, args...)
}

func NewUnknownEntityKindError(kind string) error {
	if kind == "" {
		return newError(ErrUnknownEntityKind, "entity type is missing")
	}
	return newError(ErrUnknownEntityKind, "entity type %q is not supported", kind)
}

func NewUnrecognizedValueKindError(format string, args ...any) error {
	return newError(ErrUnrecognizedValueKind, format, args...)
}

func NewUnrecognizedSnakKindError(format string, args ...any) error {
	return newError(ErrUnrecognizedSnakKind, format, args...)
}

func NewMalformedValueError(format string, args ...any) error {
	return newError(ErrMalformedValue, format, args...)
}

func NewDuplicateLanguageEntryError(field, language string) error {
	return newError(ErrDuplicateLanguageEntry, "more than one %s for language %q", field, language)
}

func NewDuplicateSiteLinkError(site string) error {
	return newError(ErrDuplicateSiteLink, "more than one site link for site %q", site)
}

func NewDuplicateStatementIDError(id string) error {
	return newError(ErrDuplicateStatementID, "statement id %q is used more than once", id)
}

func NewInvalidValueRangeError(format string, args ...any) error {
	return newError(ErrInvalidValueRange, format, args...)
}

func NewInvalidEntityIDError(id string) error {
	return newError(ErrInvalidEntityID, "%q is not a valid entity id", id)
}

func NewNoValueError(snakType, property string) error {
	return newError(ErrNoValue, "%s snak for %s has no value", snakType, property)
}
