package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestThatTypedErrorsMatchTheirSentinel(t *testing.T) {
	is := is.New(t)

	err := NewDuplicateSiteLinkError("enwiki")
	is.True(errors.Is(err, ErrDuplicateSiteLink))
	is.True(!errors.Is(err, ErrDuplicateLanguageEntry))
	is.Equal(err.Error(), `more than one site link for site "enwiki"`)
}

func TestThatWrappedErrorsStillMatch(t *testing.T) {
	is := is.New(t)

	err := fmt.Errorf("failed to decode claims: %w", NewMalformedValueError("amount is missing"))
	is.True(errors.Is(err, ErrMalformedValue))
}

func TestUnknownEntityKindWithoutKind(t *testing.T) {
	is := is.New(t)

	err := NewUnknownEntityKindError("")
	is.True(errors.Is(err, ErrUnknownEntityKind))
	is.Equal(err.Error(), "entity type is missing")
}
