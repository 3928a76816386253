// Package codec translates between Wikibase entity JSON, as served by the
// wbgetentities API and found in the JSON dumps, and the typed entity model.
//
// The wire format only carries local ids such as Q42. The site IRI that makes
// them fully qualified is injected when the codec is created and is never written
// back when encoding.
package codec

import (
	"bytes"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/internal/pkg/jsonobject"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/entities"
)

type Codec struct {
	siteIRI string
	logger  *slog.Logger
}

type Option func(*Codec)

// WithLogger sets the logger that unknown fields are reported to at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a codec for the Wikibase instance at siteIRI. An empty siteIRI
// selects Wikidata.
func New(siteIRI string, options ...Option) *Codec {
	if siteIRI == "" {
		siteIRI = ids.DefaultSiteIRI
	}

	c := &Codec{
		siteIRI: siteIRI,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Codec) SiteIRI() string {
	return c.siteIRI
}

// DecodeEntity decodes a single item or property
func (c *Codec) DecodeEntity(data []byte) (entities.EntityDocument, error) {
	fields, err := c.fields(data)
	if err != nil {
		return nil, err
	}

	kind, err := stringField(fields, "type")
	if err != nil {
		return nil, err
	}

	switch kind {
	case entities.TypeItem:
		item, err := c.decodeItem(fields)
		if err != nil {
			return nil, err
		}
		return item, nil
	case entities.TypeProperty:
		property, err := c.decodeProperty(fields)
		if err != nil {
			return nil, err
		}
		return property, nil
	}

	return nil, errors.NewUnknownEntityKindError(kind)
}

// DecodeEntities decodes a wbgetentities response, a JSON array of entities or a
// single entity. Entities are returned in document order and entries flagged as
// missing are skipped.
func (c *Codec) DecodeEntities(data []byte) ([]entities.EntityDocument, error) {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, errors.NewMalformedDocumentError("failed to unmarshal entity list: %s", err.Error())
		}
		return c.decodeAll(list)
	}

	members, err := c.members(data)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		if m.Key != "entities" {
			continue
		}

		envelope, err := c.members(m.Value)
		if err != nil {
			return nil, err
		}

		list := make([]json.RawMessage, 0, len(envelope))
		for _, e := range envelope {
			list = append(list, e.Value)
		}

		return c.decodeAll(list)
	}

	doc, err := c.DecodeEntity(data)
	if err != nil {
		return nil, err
	}

	return []entities.EntityDocument{doc}, nil
}

func (c *Codec) decodeAll(list []json.RawMessage) ([]entities.EntityDocument, error) {
	docs := make([]entities.EntityDocument, 0, len(list))

	for i, raw := range list {
		fields, err := c.fields(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}

		if _, ok := fields["missing"]; ok {
			c.logger.Debug("skipping missing entity", "id", string(fields["id"]))
			continue
		}

		doc, err := c.DecodeEntity(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// EncodeEntity writes the document in the wire format
func (c *Codec) EncodeEntity(doc entities.EntityDocument) ([]byte, error) {
	if doc == nil {
		return nil, errors.NewMalformedDocumentError("no entity to encode")
	}

	b, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", doc.EntityID().ID(), err)
	}

	return b, nil
}

// EncodeEntities writes the documents as a JSON array
func (c *Codec) EncodeEntities(docs []entities.EntityDocument) ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('[')

	for i, doc := range docs {
		b, err := c.EncodeEntity(doc)
		if err != nil {
			return nil, err
		}

		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(b)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (c *Codec) members(data []byte) ([]jsonobject.Member, error) {
	if jsonobject.IsNull(data) {
		return nil, errors.NewMalformedDocumentError("document is empty")
	}

	members, err := jsonobject.Members(data)
	if err != nil {
		return nil, errors.NewMalformedDocumentError("document is not a json object: %s", err.Error())
	}

	return members, nil
}

// fields returns the members of an object by key, the last duplicate wins
func (c *Codec) fields(data []byte) (map[string]json.RawMessage, error) {
	members, err := c.members(data)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage, len(members))
	for _, m := range members {
		fields[m.Key] = m.Value
	}

	return fields, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || jsonobject.IsNull(raw) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.NewMalformedDocumentError("field %s is not a string", name)
	}

	return s, nil
}
