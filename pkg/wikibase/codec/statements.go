package codec

import (
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/internal/pkg/jsonobject"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/snaks"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/statements"
)

type statementDTO struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Rank            string          `json:"rank"`
	MainSnak        json.RawMessage `json:"mainsnak"`
	Qualifiers      json.RawMessage `json:"qualifiers"`
	QualifiersOrder []string        `json:"qualifiers-order"`
	References      []referenceDTO  `json:"references"`
}

type referenceDTO struct {
	Hash       string          `json:"hash"`
	Snaks      json.RawMessage `json:"snaks"`
	SnaksOrder []string        `json:"snaks-order"`
}

// DecodeStatement decodes a statement object as found in the claims of an entity
func (c *Codec) DecodeStatement(data []byte) (*statements.Statement, error) {
	dto := statementDTO{}
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errors.NewMalformedDocumentError("failed to unmarshal statement: %s", err.Error())
	}

	if dto.Type != "" && dto.Type != "statement" && dto.Type != "claim" {
		return nil, errors.NewMalformedDocumentError("statement %q has unexpected type %q", dto.ID, dto.Type)
	}

	if jsonobject.IsNull(dto.MainSnak) {
		return nil, errors.NewMalformedDocumentError("statement %q has no main snak", dto.ID)
	}

	mainSnak, err := c.DecodeSnak(dto.MainSnak)
	if err != nil {
		return nil, fmt.Errorf("main snak of statement %q: %w", dto.ID, err)
	}

	decorators := []statements.StatementDecoratorFunc{}

	if dto.Rank != "" {
		rank, err := statements.ParseRank(dto.Rank)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, statements.WithRank(rank))
	}

	qualifiers, err := c.decodeSnakGroups(dto.Qualifiers, dto.QualifiersOrder)
	if err != nil {
		return nil, fmt.Errorf("qualifiers of statement %q: %w", dto.ID, err)
	}
	decorators = append(decorators, statements.Qualifiers(qualifiers...))

	for _, ref := range dto.References {
		refSnaks, err := c.decodeSnakGroups(ref.Snaks, ref.SnaksOrder)
		if err != nil {
			return nil, fmt.Errorf("reference %q of statement %q: %w", ref.Hash, dto.ID, err)
		}

		reference, err := statements.NewReference(ref.Hash, refSnaks...)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, statements.WithReference(reference))
	}

	return statements.New(dto.ID, mainSnak, decorators...)
}

// decodeSnakGroups decodes an object of snak lists keyed by property. The order
// list decides the group order, properties missing from it follow in object order.
func (c *Codec) decodeSnakGroups(raw json.RawMessage, order []string) ([]types.Snak, error) {
	members, err := objectMembers(raw, "snaks")
	if err != nil {
		return nil, err
	}

	byProperty := map[string]json.RawMessage{}
	keys := []string{}

	for _, m := range members {
		if _, ok := byProperty[m.Key]; ok {
			return nil, errors.NewMalformedDocumentError("snaks for %s appear more than once", m.Key)
		}
		byProperty[m.Key] = m.Value
		keys = append(keys, m.Key)
	}

	sorted := []string{}
	for _, key := range order {
		if _, ok := byProperty[key]; ok && !slices.Contains(sorted, key) {
			sorted = append(sorted, key)
		}
	}
	for _, key := range keys {
		if !slices.Contains(sorted, key) {
			sorted = append(sorted, key)
		}
	}

	result := []types.Snak{}

	for _, key := range sorted {
		list := []json.RawMessage{}
		if err = json.Unmarshal(byProperty[key], &list); err != nil {
			return nil, errors.NewMalformedDocumentError("snaks for %s are not a list: %s", key, err.Error())
		}

		for _, item := range list {
			s, err := c.DecodeSnak(item)
			if err != nil {
				return nil, err
			}

			if s.Property().ID() != key {
				return nil, errors.NewMalformedDocumentError("snak about %s is listed under %s", s.Property().ID(), key)
			}

			result = append(result, s)
		}
	}

	return result, nil
}

type snakDTO struct {
	SnakType  string          `json:"snaktype"`
	Property  string          `json:"property"`
	Datatype  string          `json:"datatype"`
	DataValue json.RawMessage `json:"datavalue"`
}

// DecodeSnak decodes a snak. The snaktype decides the variant and only value
// snaks may carry a datavalue.
func (c *Codec) DecodeSnak(data []byte) (types.Snak, error) {
	dto := snakDTO{}
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errors.NewMalformedValueError("failed to unmarshal snak: %s", err.Error())
	}

	if dto.Property == "" {
		return nil, errors.NewMalformedValueError("snak has no property")
	}

	property, err := ids.ParseEntityID(c.siteIRI, dto.Property)
	if err != nil {
		return nil, err
	}

	hasValue := !jsonobject.IsNull(dto.DataValue)

	switch dto.SnakType {
	case snaks.TypeValue:
		if !hasValue {
			return nil, errors.NewMalformedValueError("value snak for %s has no datavalue", dto.Property)
		}

		value, err := c.DecodeValue(dto.DataValue)
		if err != nil {
			return nil, fmt.Errorf("snak for %s: %w", dto.Property, err)
		}

		s, err := snaks.NewValueSnak(property, dto.Datatype, value)
		if err != nil {
			return nil, err
		}
		return s, nil

	case snaks.TypeSomeValue, snaks.TypeNoValue:
		if hasValue {
			return nil, errors.NewUnrecognizedSnakKindError("%s snak for %s carries a datavalue", dto.SnakType, dto.Property)
		}

		if dto.SnakType == snaks.TypeSomeValue {
			s, err := snaks.NewSomeValueSnak(property)
			if err != nil {
				return nil, err
			}
			return s, nil
		}

		s, err := snaks.NewNoValueSnak(property)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return nil, errors.NewUnrecognizedSnakKindError("snak for %s has unknown snaktype %q", dto.Property, dto.SnakType)
}
