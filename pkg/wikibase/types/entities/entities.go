package entities

import (
	"maps"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/internal/pkg/jsonobject"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/snaks"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/statements"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

const (
	TypeItem     string = ids.KindItem
	TypeProperty string = ids.KindProperty
)

// EntityDocument is the common view of items and properties
type EntityDocument interface {
	EntityID() ids.EntityID
	EntityType() string

	Label(language string) (values.MonolingualText, bool)
	Description(language string) (values.MonolingualText, bool)
	Aliases(language string) []values.MonolingualText

	Labels() map[string]values.MonolingualText
	Descriptions() map[string]values.MonolingualText
	AllAliases() map[string][]values.MonolingualText

	StatementGroups() []statements.StatementGroup
	Statements() []*statements.Statement
	RevisionID() int64

	Equal(other EntityDocument) bool
	MarshalJSON() ([]byte, error)
}

type EntityDecoratorFunc func(b *builder)

type builder struct {
	document
	sitelinks map[string]SiteLink
	err       error
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func newBuilder(id ids.EntityID, decorators []EntityDecoratorFunc) (*builder, error) {
	b := &builder{
		document: document{
			id:           id,
			labels:       map[string]values.MonolingualText{},
			descriptions: map[string]values.MonolingualText{},
			aliases:      map[string][]values.MonolingualText{},
		},
		sitelinks: map[string]SiteLink{},
	}

	for _, decorator := range decorators {
		decorator(b)
	}

	if b.err != nil {
		return nil, b.err
	}

	seen := map[string]struct{}{}
	for _, s := range b.statements {
		if s.ID() == "" {
			continue
		}
		if _, ok := seen[s.ID()]; ok {
			return nil, errors.NewDuplicateStatementIDError(s.ID())
		}
		seen[s.ID()] = struct{}{}
	}

	// the wire format groups statements by property, so keep them in that order
	grouped := make([]*statements.Statement, 0, len(b.statements))
	for _, g := range statements.Group(id, b.statements) {
		grouped = append(grouped, g.Statements()...)
	}
	b.statements = grouped

	return b, nil
}

// NewItem builds an item document from its parts. Duplicate languages, site keys
// or statement ids are reported as errors.
func NewItem(id ids.EntityID, decorators ...EntityDecoratorFunc) (*ItemDocument, error) {
	if !id.IsItem() {
		return nil, errors.NewInvalidEntityIDError(id.ID())
	}

	b, err := newBuilder(id, decorators)
	if err != nil {
		return nil, err
	}

	return &ItemDocument{document: b.document, sitelinks: b.sitelinks}, nil
}

// NewProperty builds a property document. The datatype decides what kind of values
// statements using the property carry.
func NewProperty(id ids.EntityID, datatype string, decorators ...EntityDecoratorFunc) (*PropertyDocument, error) {
	if !id.IsProperty() {
		return nil, errors.NewInvalidEntityIDError(id.ID())
	}

	if datatype == "" {
		return nil, errors.NewMalformedDocumentError("property %s has no datatype", id.ID())
	}

	b, err := newBuilder(id, decorators)
	if err != nil {
		return nil, err
	}

	if len(b.sitelinks) > 0 {
		return nil, errors.NewMalformedDocumentError("property %s can not have site links", id.ID())
	}

	return &PropertyDocument{document: b.document, datatype: datatype}, nil
}

func Label(language, text string) EntityDecoratorFunc {
	return FallbackLabel(language, values.NewMonolingualText(language, text))
}

// FallbackLabel sets the label for language to a text that may be written in
// another language, as the API serves it when language fallback is requested
func FallbackLabel(language string, text values.MonolingualText) EntityDecoratorFunc {
	return func(b *builder) {
		if _, ok := b.labels[language]; ok {
			b.fail(errors.NewDuplicateLanguageEntryError("label", language))
			return
		}
		b.labels[language] = text
	}
}

func Description(language, text string) EntityDecoratorFunc {
	return FallbackDescription(language, values.NewMonolingualText(language, text))
}

func FallbackDescription(language string, text values.MonolingualText) EntityDecoratorFunc {
	return func(b *builder) {
		if _, ok := b.descriptions[language]; ok {
			b.fail(errors.NewDuplicateLanguageEntryError("description", language))
			return
		}
		b.descriptions[language] = text
	}
}

func Alias(language string, texts ...string) EntityDecoratorFunc {
	return func(b *builder) {
		for _, text := range texts {
			b.aliases[language] = append(b.aliases[language], values.NewMonolingualText(language, text))
		}
	}
}

func Statement(s *statements.Statement) EntityDecoratorFunc {
	return func(b *builder) {
		if s == nil {
			b.fail(errors.NewMalformedDocumentError("statement on %s is nil", b.id.ID()))
			return
		}
		b.statements = append(b.statements, s)
	}
}

// Claim adds a statement with a fresh id and a value snak for the property, given
// as a local id such as P31
func Claim(property, datatype string, value types.Value, decorators ...statements.StatementDecoratorFunc) EntityDecoratorFunc {
	return func(b *builder) {
		pid, err := ids.ParseEntityID(b.id.SiteIRI(), property)
		if err != nil {
			b.fail(err)
			return
		}

		snak, err := snaks.NewValueSnak(pid, datatype, value)
		if err != nil {
			b.fail(err)
			return
		}

		s, err := statements.New(statements.NewID(b.id), snak, decorators...)
		if err != nil {
			b.fail(err)
			return
		}

		b.statements = append(b.statements, s)
	}
}

// Link adds a site link to an item. Badges must be item ids.
func Link(site, title string, badges ...ids.EntityID) EntityDecoratorFunc {
	return func(b *builder) {
		if _, ok := b.sitelinks[site]; ok {
			b.fail(errors.NewDuplicateSiteLinkError(site))
			return
		}

		link, err := NewSiteLink(site, title, badges...)
		if err != nil {
			b.fail(err)
			return
		}

		b.sitelinks[site] = link
	}
}

func Revision(revision int64) EntityDecoratorFunc {
	return func(b *builder) { b.revision = revision }
}

// Invalid makes the construction fail with err. Decorators that need to build a
// value before they can add it use it to report failures.
func Invalid(err error) EntityDecoratorFunc {
	return func(b *builder) { b.fail(err) }
}

type SiteLink struct {
	site   string
	title  string
	badges []ids.EntityID
}

func NewSiteLink(site, title string, badges ...ids.EntityID) (SiteLink, error) {
	if site == "" {
		return SiteLink{}, errors.NewMalformedDocumentError("site link to %q has no site key", title)
	}

	for _, badge := range badges {
		if !badge.IsItem() {
			return SiteLink{}, errors.NewInvalidEntityIDError(badge.ID())
		}
	}

	return SiteLink{site: site, title: title, badges: slices.Clone(badges)}, nil
}

func (l SiteLink) Site() string  { return l.site }
func (l SiteLink) Title() string { return l.title }

func (l SiteLink) Badges() []ids.EntityID {
	return slices.Clone(l.badges)
}

func (l SiteLink) Equal(other SiteLink) bool {
	return l.site == other.site && l.title == other.title &&
		slices.EqualFunc(l.badges, other.badges, ids.EntityID.Equal)
}

type document struct {
	id           ids.EntityID
	labels       map[string]values.MonolingualText
	descriptions map[string]values.MonolingualText
	aliases      map[string][]values.MonolingualText
	statements   []*statements.Statement
	revision     int64
}

func (d document) EntityID() ids.EntityID { return d.id }
func (d document) RevisionID() int64      { return d.revision }

func (d document) Label(language string) (values.MonolingualText, bool) {
	mt, ok := d.labels[language]
	return mt, ok
}

func (d document) Description(language string) (values.MonolingualText, bool) {
	mt, ok := d.descriptions[language]
	return mt, ok
}

func (d document) Aliases(language string) []values.MonolingualText {
	return slices.Clone(d.aliases[language])
}

func (d document) Labels() map[string]values.MonolingualText {
	return maps.Clone(d.labels)
}

func (d document) Descriptions() map[string]values.MonolingualText {
	return maps.Clone(d.descriptions)
}

func (d document) AllAliases() map[string][]values.MonolingualText {
	aliases := make(map[string][]values.MonolingualText, len(d.aliases))
	for language, list := range d.aliases {
		aliases[language] = slices.Clone(list)
	}
	return aliases
}

func (d document) Statements() []*statements.Statement {
	return slices.Clone(d.statements)
}

func (d document) StatementGroups() []statements.StatementGroup {
	return statements.Group(d.id, d.statements)
}

// Claims returns the claim view of every statement on the document
func (d document) Claims() []statements.Claim {
	claims := make([]statements.Claim, 0, len(d.statements))
	for _, s := range d.statements {
		claims = append(claims, s.Claim(d.id))
	}
	return claims
}

func (d document) clone() document {
	c := d
	c.labels = maps.Clone(d.labels)
	c.descriptions = maps.Clone(d.descriptions)
	c.aliases = d.AllAliases()
	c.statements = slices.Clone(d.statements)
	return c
}

func (d document) equal(other document) bool {
	if !d.id.Equal(other.id) || d.revision != other.revision {
		return false
	}

	if !maps.Equal(d.labels, other.labels) || !maps.Equal(d.descriptions, other.descriptions) {
		return false
	}

	if len(d.aliases) != len(other.aliases) {
		return false
	}
	for language, list := range d.aliases {
		if !slices.Equal(list, other.aliases[language]) {
			return false
		}
	}

	return slices.EqualFunc(d.statements, other.statements, (*statements.Statement).Equal)
}

type term struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

func terms(m map[string]values.MonolingualText) map[string]term {
	t := make(map[string]term, len(m))
	for language, mt := range m {
		t[language] = term{Language: mt.Language(), Value: mt.Text()}
	}
	return t
}

// marshalBody writes the members shared by all entity types
func (d document) marshalBody(w *jsonobject.Writer) error {
	if err := w.Add("labels", terms(d.labels)); err != nil {
		return err
	}

	if err := w.Add("descriptions", terms(d.descriptions)); err != nil {
		return err
	}

	aliases := make(map[string][]term, len(d.aliases))
	for language, list := range d.aliases {
		for _, mt := range list {
			aliases[language] = append(aliases[language], term{Language: mt.Language(), Value: mt.Text()})
		}
	}
	if err := w.Add("aliases", aliases); err != nil {
		return err
	}

	claims := jsonobject.NewWriter()
	for _, g := range d.StatementGroups() {
		b, err := json.Marshal(g.Statements())
		if err != nil {
			return err
		}
		claims.AddRaw(g.Property().ID(), b)
	}
	w.AddRaw("claims", claims.Bytes())

	return nil
}

// ItemDocument is an entity that may be linked to pages on client sites
type ItemDocument struct {
	document
	sitelinks map[string]SiteLink
}

func (d *ItemDocument) EntityType() string   { return TypeItem }
func (d *ItemDocument) ItemID() ids.EntityID { return d.id }

func (d *ItemDocument) SiteLink(site string) (SiteLink, bool) {
	l, ok := d.sitelinks[site]
	return l, ok
}

func (d *ItemDocument) SiteLinks() map[string]SiteLink {
	return maps.Clone(d.sitelinks)
}

func (d *ItemDocument) WithRevision(revision int64) *ItemDocument {
	c := &ItemDocument{document: d.clone(), sitelinks: maps.Clone(d.sitelinks)}
	c.revision = revision
	return c
}

// WithLabel returns a copy of the document with the label for language set to text
func (d *ItemDocument) WithLabel(language, text string) *ItemDocument {
	c := &ItemDocument{document: d.clone(), sitelinks: maps.Clone(d.sitelinks)}
	c.labels[language] = values.NewMonolingualText(language, text)
	return c
}

func (d *ItemDocument) Equal(other EntityDocument) bool {
	o, ok := other.(*ItemDocument)
	if !ok || !d.document.equal(o.document) {
		return false
	}
	return maps.EqualFunc(d.sitelinks, o.sitelinks, SiteLink.Equal)
}

func (d *ItemDocument) MarshalJSON() ([]byte, error) {
	w := jsonobject.NewWriter()
	w.AddRaw("type", []byte(`"`+TypeItem+`"`))

	if err := w.Add("id", d.id.ID()); err != nil {
		return nil, err
	}

	if err := d.marshalBody(w); err != nil {
		return nil, err
	}

	type sitelink struct {
		Site   string   `json:"site"`
		Title  string   `json:"title"`
		Badges []string `json:"badges"`
	}

	links := make(map[string]sitelink, len(d.sitelinks))
	for key, l := range d.sitelinks {
		badges := make([]string, 0, len(l.badges))
		for _, badge := range l.badges {
			badges = append(badges, badge.ID())
		}
		links[key] = sitelink{Site: l.site, Title: l.title, Badges: badges}
	}

	if err := w.Add("sitelinks", links); err != nil {
		return nil, err
	}

	if d.revision != 0 {
		if err := w.Add("lastrevid", d.revision); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// PropertyDocument is an entity used as the predicate of statements
type PropertyDocument struct {
	document
	datatype string
}

func (d *PropertyDocument) EntityType() string       { return TypeProperty }
func (d *PropertyDocument) PropertyID() ids.EntityID { return d.id }
func (d *PropertyDocument) Datatype() string         { return d.datatype }

func (d *PropertyDocument) WithRevision(revision int64) *PropertyDocument {
	c := &PropertyDocument{document: d.clone(), datatype: d.datatype}
	c.revision = revision
	return c
}

func (d *PropertyDocument) WithLabel(language, text string) *PropertyDocument {
	c := &PropertyDocument{document: d.clone(), datatype: d.datatype}
	c.labels[language] = values.NewMonolingualText(language, text)
	return c
}

func (d *PropertyDocument) Equal(other EntityDocument) bool {
	o, ok := other.(*PropertyDocument)
	return ok && d.datatype == o.datatype && d.document.equal(o.document)
}

func (d *PropertyDocument) MarshalJSON() ([]byte, error) {
	w := jsonobject.NewWriter()
	w.AddRaw("type", []byte(`"`+TypeProperty+`"`))

	if err := w.Add("datatype", d.datatype); err != nil {
		return nil, err
	}

	if err := w.Add("id", d.id.ID()); err != nil {
		return nil, err
	}

	if err := d.marshalBody(w); err != nil {
		return nil, err
	}

	if d.revision != 0 {
		if err := w.Add("lastrevid", d.revision); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}
