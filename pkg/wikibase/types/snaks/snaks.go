package snaks

import (
	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

const (
	TypeValue     string = "value"
	TypeSomeValue string = "somevalue"
	TypeNoValue   string = "novalue"
)

// ValueSnak asserts that a property has a specific value
type ValueSnak struct {
	property ids.EntityID
	datatype string
	value    types.Value
}

// NewValueSnak creates a snak for the given value. An empty datatype is replaced
// by the default datatype for the value.
func NewValueSnak(property ids.EntityID, datatype string, value types.Value) (*ValueSnak, error) {
	if err := checkProperty(property); err != nil {
		return nil, err
	}

	if value == nil {
		return nil, errors.NewMalformedValueError("value snak for %s must have a value", property.ID())
	}

	if datatype == "" {
		kind := ""
		if ref, ok := value.(values.EntityRef); ok {
			kind = ref.EntityID().Kind()
		}
		datatype = values.DefaultDatatype(value.ValueType(), kind)
	}

	expected, ok := values.ValueTypeForDatatype(datatype)
	if !ok {
		return nil, errors.NewUnrecognizedValueKindError("datatype %q is not supported", datatype)
	}

	if expected != value.ValueType() {
		return nil, errors.NewUnrecognizedValueKindError(
			"datatype %q does not carry values of type %q", datatype, value.ValueType(),
		)
	}

	return &ValueSnak{property: property, datatype: datatype, value: value}, nil
}

func (s *ValueSnak) SnakType() string       { return TypeValue }
func (s *ValueSnak) Property() ids.EntityID { return s.property }
func (s *ValueSnak) Datatype() string       { return s.datatype }
func (s *ValueSnak) Value() types.Value     { return s.value }

func (s *ValueSnak) Equal(other types.Snak) bool {
	o, ok := other.(*ValueSnak)
	return ok && o.property.Equal(s.property) && o.datatype == s.datatype && o.value.Equal(s.value)
}

func (s *ValueSnak) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SnakType  string      `json:"snaktype"`
		Property  string      `json:"property"`
		Datatype  string      `json:"datatype"`
		DataValue types.Value `json:"datavalue"`
	}{
		SnakType:  TypeValue,
		Property:  s.property.ID(),
		Datatype:  s.datatype,
		DataValue: s.value,
	})
}

// SomeValueSnak asserts that a property has a value that is not known
type SomeValueSnak struct {
	property ids.EntityID
}

func NewSomeValueSnak(property ids.EntityID) (*SomeValueSnak, error) {
	if err := checkProperty(property); err != nil {
		return nil, err
	}
	return &SomeValueSnak{property: property}, nil
}

func (s *SomeValueSnak) SnakType() string       { return TypeSomeValue }
func (s *SomeValueSnak) Property() ids.EntityID { return s.property }

func (s *SomeValueSnak) Equal(other types.Snak) bool {
	o, ok := other.(*SomeValueSnak)
	return ok && o.property.Equal(s.property)
}

func (s *SomeValueSnak) MarshalJSON() ([]byte, error) {
	return marshalValueless(TypeSomeValue, s.property)
}

// NoValueSnak asserts that a property has no value at all
type NoValueSnak struct {
	property ids.EntityID
}

func NewNoValueSnak(property ids.EntityID) (*NoValueSnak, error) {
	if err := checkProperty(property); err != nil {
		return nil, err
	}
	return &NoValueSnak{property: property}, nil
}

func (s *NoValueSnak) SnakType() string       { return TypeNoValue }
func (s *NoValueSnak) Property() ids.EntityID { return s.property }

func (s *NoValueSnak) Equal(other types.Snak) bool {
	o, ok := other.(*NoValueSnak)
	return ok && o.property.Equal(s.property)
}

func (s *NoValueSnak) MarshalJSON() ([]byte, error) {
	return marshalValueless(TypeNoValue, s.property)
}

// ValueOf returns the value of a value snak. Asking a somevalue or novalue snak
// for its value is a usage error and reported as ErrNoValue.
func ValueOf(s types.Snak) (types.Value, error) {
	if vs, ok := s.(*ValueSnak); ok {
		return vs.Value(), nil
	}
	return nil, errors.NewNoValueError(s.SnakType(), s.Property().ID())
}

func marshalValueless(snakType string, property ids.EntityID) ([]byte, error) {
	return json.Marshal(struct {
		SnakType string `json:"snaktype"`
		Property string `json:"property"`
	}{
		SnakType: snakType,
		Property: property.ID(),
	})
}

func checkProperty(property ids.EntityID) error {
	if !property.IsProperty() {
		return errors.NewInvalidEntityIDError(property.ID())
	}
	return nil
}
