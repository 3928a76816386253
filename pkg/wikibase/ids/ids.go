package ids

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
)

const DefaultSiteIRI string = "http://www.wikidata.org/entity/"

const (
	KindItem     string = "item"
	KindProperty string = "property"
)

// EntityID identifies an entity within a Wikibase instance. The wire format only
// carries the local id ("Q42"), the site IRI comes from the decoding context.
type EntityID struct {
	siteIRI string
	kind    string
	id      string
	numeric int64
}

func NewItemID(siteIRI string, numericID int64) EntityID {
	return EntityID{siteIRI: siteIRI, kind: KindItem, id: "Q" + strconv.FormatInt(numericID, 10), numeric: numericID}
}

func NewPropertyID(siteIRI string, numericID int64) EntityID {
	return EntityID{siteIRI: siteIRI, kind: KindProperty, id: "P" + strconv.FormatInt(numericID, 10), numeric: numericID}
}

// ParseEntityID accepts local ids such as Q42 or P31
func ParseEntityID(siteIRI, id string) (EntityID, error) {
	if len(id) < 2 {
		return EntityID{}, errors.NewInvalidEntityIDError(id)
	}

	kind, ok := KindFromPrefix(id[0])
	if !ok {
		return EntityID{}, errors.NewInvalidEntityIDError(id)
	}

	digits := id[1:]
	if digits[0] == '0' || strings.ContainsFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) {
		return EntityID{}, errors.NewInvalidEntityIDError(id)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return EntityID{}, errors.NewInvalidEntityIDError(id)
	}

	return EntityID{siteIRI: siteIRI, kind: kind, id: id, numeric: n}, nil
}

// FromNumeric builds an id from the entity-type and numeric-id pair used by older dumps
func FromNumeric(siteIRI, kind string, numericID int64) (EntityID, error) {
	if numericID <= 0 {
		return EntityID{}, errors.NewInvalidEntityIDError(strconv.FormatInt(numericID, 10))
	}

	switch kind {
	case KindItem:
		return NewItemID(siteIRI, numericID), nil
	case KindProperty:
		return NewPropertyID(siteIRI, numericID), nil
	default:
		return EntityID{}, errors.NewUnknownEntityKindError(kind)
	}
}

func KindFromPrefix(prefix byte) (string, bool) {
	switch prefix {
	case 'Q':
		return KindItem, true
	case 'P':
		return KindProperty, true
	}
	return "", false
}

func (e EntityID) SiteIRI() string { return e.siteIRI }
func (e EntityID) Kind() string    { return e.kind }
func (e EntityID) ID() string      { return e.id }
func (e EntityID) NumericID() int64 {
	return e.numeric
}

func (e EntityID) IsItem() bool     { return e.kind == KindItem }
func (e EntityID) IsProperty() bool { return e.kind == KindProperty }
func (e EntityID) IsZero() bool     { return e.id == "" }

// IRI returns the fully qualified identifier, e.g. http://www.wikidata.org/entity/Q42
func (e EntityID) IRI() string {
	return e.siteIRI + e.id
}

func (e EntityID) String() string {
	return e.IRI()
}

func (e EntityID) Equal(other EntityID) bool {
	return e == other
}

func (e EntityID) Compare(other EntityID) int {
	return cmp.Or(
		cmp.Compare(e.siteIRI, other.siteIRI),
		cmp.Compare(e.kind, other.kind),
		cmp.Compare(e.numeric, other.numeric),
	)
}
