package codec

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/internal/pkg/jsonobject"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/entities"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

var knownEntityFields = map[string]struct{}{
	"type":         {},
	"id":           {},
	"datatype":     {},
	"labels":       {},
	"descriptions": {},
	"aliases":      {},
	"claims":       {},
	"sitelinks":    {},
	"lastrevid":    {},
}

func (c *Codec) decodeItem(fields map[string]json.RawMessage) (*entities.ItemDocument, error) {
	id, decorators, err := c.decodeCommon(fields, ids.KindItem)
	if err != nil {
		return nil, err
	}

	links, err := c.decodeSiteLinks(fields["sitelinks"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id.ID(), err)
	}
	decorators = append(decorators, links...)

	item, err := entities.NewItem(id, decorators...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id.ID(), err)
	}

	return item, nil
}

func (c *Codec) decodeProperty(fields map[string]json.RawMessage) (*entities.PropertyDocument, error) {
	id, decorators, err := c.decodeCommon(fields, ids.KindProperty)
	if err != nil {
		return nil, err
	}

	datatype, err := stringField(fields, "datatype")
	if err != nil {
		return nil, err
	}

	if datatype == "" {
		return nil, errors.NewMalformedDocumentError("property %s has no datatype", id.ID())
	}

	if _, ok := fields["sitelinks"]; ok {
		c.logger.Debug("ignoring site links on property", "id", id.ID())
	}

	property, err := entities.NewProperty(id, datatype, decorators...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id.ID(), err)
	}

	return property, nil
}

// decodeCommon decodes the members shared by items and properties into decorators
func (c *Codec) decodeCommon(fields map[string]json.RawMessage, kind string) (ids.EntityID, []entities.EntityDecoratorFunc, error) {
	localID, err := stringField(fields, "id")
	if err != nil {
		return ids.EntityID{}, nil, err
	}

	if localID == "" {
		return ids.EntityID{}, nil, errors.NewMalformedDocumentError("%s has no id", kind)
	}

	id, err := ids.ParseEntityID(c.siteIRI, localID)
	if err != nil || id.Kind() != kind {
		return ids.EntityID{}, nil, errors.NewMalformedDocumentError("%q is not a valid %s id", localID, kind)
	}

	for key := range fields {
		if _, ok := knownEntityFields[key]; !ok {
			c.logger.Debug("ignoring unknown field", "id", localID, "field", key)
		}
	}

	decorators := []entities.EntityDecoratorFunc{}

	labels, err := c.decodeTerms(fields["labels"], "label", entities.FallbackLabel)
	if err != nil {
		return id, nil, fmt.Errorf("%s: %w", localID, err)
	}
	decorators = append(decorators, labels...)

	descriptions, err := c.decodeTerms(fields["descriptions"], "description", entities.FallbackDescription)
	if err != nil {
		return id, nil, fmt.Errorf("%s: %w", localID, err)
	}
	decorators = append(decorators, descriptions...)

	aliases, err := c.decodeAliases(fields["aliases"])
	if err != nil {
		return id, nil, fmt.Errorf("%s: %w", localID, err)
	}
	decorators = append(decorators, aliases...)

	claims, err := c.decodeClaims(fields["claims"])
	if err != nil {
		return id, nil, fmt.Errorf("%s: %w", localID, err)
	}
	decorators = append(decorators, claims...)

	if raw, ok := fields["lastrevid"]; ok && !jsonobject.IsNull(raw) {
		var revision int64
		if err = json.Unmarshal(raw, &revision); err != nil {
			return id, nil, errors.NewMalformedDocumentError("lastrevid of %s is not an integer", localID)
		}
		decorators = append(decorators, entities.Revision(revision))
	}

	return id, decorators, nil
}

type term struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

func (t term) check(key string) error {
	if t.Language != "" && t.Language != key {
		return errors.NewMalformedDocumentError("term for language %q is keyed as %q", t.Language, key)
	}
	return nil
}

// text keeps the language the term is written in, which differs from the key
// for labels and descriptions served with language fallback
func (t term) text(key string) values.MonolingualText {
	if t.Language == "" {
		return values.NewMonolingualText(key, t.Value)
	}
	return values.NewMonolingualText(t.Language, t.Value)
}

// objectMembers reads an optional object member. The API writes empty objects as
// empty arrays, so those are accepted too.
func objectMembers(raw json.RawMessage, what string) ([]jsonobject.Member, error) {
	if jsonobject.IsNull(raw) || string(raw) == "[]" {
		return nil, nil
	}

	members, err := jsonobject.Members(raw)
	if err != nil {
		return nil, errors.NewMalformedDocumentError("%s is not a json object: %s", what, err.Error())
	}

	return members, nil
}

func (c *Codec) decodeTerms(raw json.RawMessage, field string, decorator func(language string, text values.MonolingualText) entities.EntityDecoratorFunc) ([]entities.EntityDecoratorFunc, error) {
	members, err := objectMembers(raw, field+"s")
	if err != nil {
		return nil, err
	}

	decorators := make([]entities.EntityDecoratorFunc, 0, len(members))
	seen := map[string]struct{}{}

	for _, m := range members {
		if _, ok := seen[m.Key]; ok {
			return nil, errors.NewDuplicateLanguageEntryError(field, m.Key)
		}
		seen[m.Key] = struct{}{}

		t := term{}
		if err = json.Unmarshal(m.Value, &t); err != nil {
			return nil, errors.NewMalformedDocumentError("%s for %q is malformed: %s", field, m.Key, err.Error())
		}

		decorators = append(decorators, decorator(m.Key, t.text(m.Key)))
	}

	return decorators, nil
}

func (c *Codec) decodeAliases(raw json.RawMessage) ([]entities.EntityDecoratorFunc, error) {
	members, err := objectMembers(raw, "aliases")
	if err != nil {
		return nil, err
	}

	decorators := make([]entities.EntityDecoratorFunc, 0, len(members))
	seen := map[string]struct{}{}

	for _, m := range members {
		if _, ok := seen[m.Key]; ok {
			return nil, errors.NewDuplicateLanguageEntryError("alias list", m.Key)
		}
		seen[m.Key] = struct{}{}

		list := []term{}
		if err = json.Unmarshal(m.Value, &list); err != nil {
			return nil, errors.NewMalformedDocumentError("aliases for %q are malformed: %s", m.Key, err.Error())
		}

		texts := make([]string, 0, len(list))
		for _, t := range list {
			if err = t.check(m.Key); err != nil {
				return nil, err
			}
			texts = append(texts, t.Value)
		}

		decorators = append(decorators, entities.Alias(m.Key, texts...))
	}

	return decorators, nil
}

func (c *Codec) decodeClaims(raw json.RawMessage) ([]entities.EntityDecoratorFunc, error) {
	members, err := objectMembers(raw, "claims")
	if err != nil {
		return nil, err
	}

	decorators := []entities.EntityDecoratorFunc{}
	seen := map[string]struct{}{}

	for _, m := range members {
		if _, ok := seen[m.Key]; ok {
			return nil, errors.NewMalformedDocumentError("claims for %s appear more than once", m.Key)
		}
		seen[m.Key] = struct{}{}

		list := []json.RawMessage{}
		if err = json.Unmarshal(m.Value, &list); err != nil {
			return nil, errors.NewMalformedDocumentError("claims for %s are not a list: %s", m.Key, err.Error())
		}

		for _, item := range list {
			s, err := c.DecodeStatement(item)
			if err != nil {
				return nil, fmt.Errorf("claim for %s: %w", m.Key, err)
			}

			if s.Property().ID() != m.Key {
				return nil, errors.NewMalformedDocumentError("statement %q about %s is listed under %s", s.ID(), s.Property().ID(), m.Key)
			}

			decorators = append(decorators, entities.Statement(s))
		}
	}

	return decorators, nil
}

func (c *Codec) decodeSiteLinks(raw json.RawMessage) ([]entities.EntityDecoratorFunc, error) {
	members, err := objectMembers(raw, "sitelinks")
	if err != nil {
		return nil, err
	}

	decorators := make([]entities.EntityDecoratorFunc, 0, len(members))
	seen := map[string]struct{}{}

	for _, m := range members {
		if _, ok := seen[m.Key]; ok {
			return nil, errors.NewDuplicateSiteLinkError(m.Key)
		}
		seen[m.Key] = struct{}{}

		link := struct {
			Site   string   `json:"site"`
			Title  string   `json:"title"`
			Badges []string `json:"badges"`
		}{}

		if err = json.Unmarshal(m.Value, &link); err != nil {
			return nil, errors.NewMalformedDocumentError("site link for %q is malformed: %s", m.Key, err.Error())
		}

		if link.Site != "" && link.Site != m.Key {
			return nil, errors.NewMalformedDocumentError("site link for %q is keyed as %q", link.Site, m.Key)
		}

		badges := make([]ids.EntityID, 0, len(link.Badges))
		for _, b := range link.Badges {
			badge, err := ids.ParseEntityID(c.siteIRI, b)
			if err != nil {
				return nil, fmt.Errorf("badge of site link %q: %w", m.Key, err)
			}
			badges = append(badges, badge)
		}

		decorators = append(decorators, entities.Link(m.Key, link.Title, badges...))
	}

	return decorators, nil
}
