package values

import (
	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
)

// Value types as they appear in the "type" field of a datavalue
const (
	TypeString          string = "string"
	TypeEntityID        string = "wikibase-entityid"
	TypeQuantity        string = "quantity"
	TypeTime            string = "time"
	TypeGlobeCoordinate string = "globecoordinate"
	TypeMonolingualText string = "monolingualtext"
)

type datavalue struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// String holds a plain string datum
type String struct {
	text string
}

func NewString(text string) String {
	return String{text: text}
}

func (s String) Text() string      { return s.text }
func (s String) ValueType() string { return TypeString }

func (s String) Equal(other types.Value) bool {
	o, ok := other.(String)
	return ok && o == s
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(datavalue{Value: s.text, Type: TypeString})
}

// EntityRef is a value pointing at another entity
type EntityRef struct {
	id ids.EntityID
}

func NewEntityRef(id ids.EntityID) EntityRef {
	return EntityRef{id: id}
}

func (r EntityRef) EntityID() ids.EntityID { return r.id }
func (r EntityRef) ValueType() string      { return TypeEntityID }

func (r EntityRef) Equal(other types.Value) bool {
	o, ok := other.(EntityRef)
	return ok && o.id.Equal(r.id)
}

func (r EntityRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(datavalue{
		Value: struct {
			EntityType string `json:"entity-type"`
			NumericID  int64  `json:"numeric-id"`
			ID         string `json:"id"`
		}{
			EntityType: r.id.Kind(),
			NumericID:  r.id.NumericID(),
			ID:         r.id.ID(),
		},
		Type: TypeEntityID,
	})
}

// MonolingualText is a text in a given language. Labels, descriptions and aliases
// use it as well, with a different wire shape.
type MonolingualText struct {
	language string
	text     string
}

func NewMonolingualText(language, text string) MonolingualText {
	return MonolingualText{language: language, text: text}
}

func (mt MonolingualText) Language() string  { return mt.language }
func (mt MonolingualText) Text() string      { return mt.text }
func (mt MonolingualText) ValueType() string { return TypeMonolingualText }

func (mt MonolingualText) Equal(other types.Value) bool {
	o, ok := other.(MonolingualText)
	return ok && o == mt
}

func (mt MonolingualText) MarshalJSON() ([]byte, error) {
	return json.Marshal(datavalue{
		Value: struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}{
			Text:     mt.text,
			Language: mt.language,
		},
		Type: TypeMonolingualText,
	})
}
