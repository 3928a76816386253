package types

import "github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"

type Value interface {
	ValueType() string
	Equal(other Value) bool
	MarshalJSON() ([]byte, error)
}

type Snak interface {
	SnakType() string
	Property() ids.EntityID
	Equal(other Snak) bool
	MarshalJSON() ([]byte, error)
}
