package codec

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/shopspring/decimal"

	wberrors "github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/entities"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/snaks"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/statements"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types/values"
)

const testSiteIRI string = "https://wikibase.example.org/entity/"

func TestDecodeItemWithLabel(t *testing.T) {
	is := is.New(t)

	doc, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","labels":{"en":{"language":"en","value":"foobar"}}}`))
	is.NoErr(err)

	item, ok := doc.(*entities.ItemDocument)
	is.True(ok)
	is.Equal(item.ItemID().IRI(), testSiteIRI+"Q1")

	label, ok := item.Label("en")
	is.True(ok)
	is.Equal(label.Text(), "foobar")

	_, ok = item.Label("fr")
	is.True(!ok) // no label in french
}

func TestDecodeTwoStatementsForTheSameProperty(t *testing.T) {
	is := is.New(t)

	doc, err := New(testSiteIRI).DecodeEntity([]byte(itemWithTwoStatementsJSON))
	is.NoErr(err)

	groups := doc.StatementGroups()
	is.Equal(len(groups), 1)
	is.Equal(groups[0].Len(), 2)
	is.Equal(groups[0].Statements()[0].ID(), "Q1$first")
	is.Equal(groups[0].Statements()[1].ID(), "Q1$second")
	is.True(groups[0].Claims()[1].Subject().Equal(doc.EntityID()))
}

func TestDecodeNoValueSnak(t *testing.T) {
	is := is.New(t)

	s, err := New(testSiteIRI).DecodeSnak([]byte(`{"snaktype":"novalue","property":"P1"}`))
	is.NoErr(err)
	is.Equal(s.SnakType(), snaks.TypeNoValue)
	is.Equal(s.Property().ID(), "P1")

	_, err = snaks.ValueOf(s)
	is.True(errors.Is(err, wberrors.ErrNoValue))
}

func TestThatUnknownFieldsAreIgnored(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(testSiteIRI, WithLogger(logger))

	doc, err := c.DecodeEntity([]byte(`{"type":"item","id":"Q1","foo":1}`))
	is.NoErr(err)
	is.True(strings.Contains(buf.String(), "field=foo"))

	b, err := c.EncodeEntity(doc)
	is.NoErr(err)
	is.True(!bytes.Contains(b, []byte(`"foo"`)))
	is.Equal(string(b), `{"type":"item","id":"Q1","labels":{},"descriptions":{},"aliases":{},"claims":{},"sitelinks":{}}`)
}

func TestDecodeAndEncodeAreInverse(t *testing.T) {
	is := is.New(t)

	c := New(testSiteIRI)

	doc, err := c.DecodeEntity([]byte(fullItemJSON))
	is.NoErr(err)

	b, err := c.EncodeEntity(doc)
	is.NoErr(err)
	is.Equal(string(b), fullItemJSON)

	again, err := c.DecodeEntity(b)
	is.NoErr(err)
	is.True(again.Equal(doc))
}

func TestRoundTripOfConstructedDocument(t *testing.T) {
	is := is.New(t)

	q1 := ids.NewItemID(testSiteIRI, 1)
	p2 := ids.NewPropertyID(testSiteIRI, 2)
	p3 := ids.NewPropertyID(testSiteIRI, 3)

	main, _ := snaks.NewValueSnak(p2, values.DatatypeItem, values.NewEntityRef(ids.NewItemID(testSiteIRI, 5)))
	nv, _ := snaks.NewNoValueSnak(p3)
	sv, _ := snaks.NewSomeValueSnak(p2)
	q, _ := values.NewQuantityWithBounds(decimal.RequireFromString("10.5"), decimal.RequireFromString("10"), decimal.RequireFromString("11"), testSiteIRI+"Q11573")
	amount, _ := snaks.NewValueSnak(p3, values.DatatypeQuantity, q)

	ref, _ := statements.NewReference("", nv)
	first, _ := statements.New(statements.NewID(q1), main,
		statements.Qualifier(nv),
		statements.Qualifier(sv),
		statements.Qualifier(amount),
		statements.WithReference(ref),
	)
	second, _ := statements.New(statements.NewID(q1), amount, statements.WithRank(statements.RankDeprecated))
	third, _ := statements.New(statements.NewID(q1), sv)

	item, err := entities.NewItem(q1,
		entities.Label("en", "foo"),
		entities.Description("de", "bar"),
		entities.Alias("en", "baz", "qux"),
		entities.Statement(first),
		entities.Statement(second),
		entities.Statement(third),
		entities.Link("dewiki", "Foo"),
		entities.Revision(17),
	)
	is.NoErr(err)

	c := New(testSiteIRI)

	b, err := c.EncodeEntity(item)
	is.NoErr(err)

	decoded, err := c.DecodeEntity(b)
	is.NoErr(err)
	is.True(decoded.Equal(item))
}

func TestDecodeProperty(t *testing.T) {
	is := is.New(t)

	doc, err := New("").DecodeEntity([]byte(propertyJSON))
	is.NoErr(err)

	property, ok := doc.(*entities.PropertyDocument)
	is.True(ok)
	is.Equal(property.PropertyID().IRI(), ids.DefaultSiteIRI+"P31")
	is.Equal(property.Datatype(), values.DatatypeItem)
	is.Equal(property.RevisionID(), int64(5))

	b, err := New("").EncodeEntity(doc)
	is.NoErr(err)
	is.Equal(string(b), propertyJSON)
}

func TestDecodeValues(t *testing.T) {
	is := is.New(t)

	doc, err := New(testSiteIRI).DecodeEntity([]byte(fullItemJSON))
	is.NoErr(err)

	valueOf := func(property string) any {
		for _, g := range doc.StatementGroups() {
			if g.Property().ID() == property {
				v, err := snaks.ValueOf(g.Statements()[0].MainSnak())
				is.NoErr(err)
				return v
			}
		}
		t.Fatalf("no statement for %s", property)
		return nil
	}

	ref := valueOf("P31").(values.EntityRef)
	is.Equal(ref.EntityID().IRI(), testSiteIRI+"Q5")

	tv := valueOf("P569").(values.Time)
	is.Equal(tv.Year(), int64(1952))
	is.Equal(tv.Precision(), values.PrecisionDay)

	q := valueOf("P1082").(values.Quantity)
	lower, upper, ok := q.Bounds()
	is.True(ok)
	is.True(lower.Equal(decimal.RequireFromString("0.5")))
	is.True(upper.Equal(decimal.NewFromInt(2)))

	gc := valueOf("P625").(values.GlobeCoordinate)
	is.Equal(gc.Latitude(), 52.5)
	is.Equal(gc.Globe(), values.GlobeEarth)

	mt := valueOf("P1559").(values.MonolingualText)
	is.Equal(mt.Language(), "en")

	link, ok := doc.(*entities.ItemDocument).SiteLink("enwiki")
	is.True(ok)
	is.Equal(link.Badges()[0].ID(), "Q17437796")
}

func TestDecodeEntityRefFromNumericID(t *testing.T) {
	is := is.New(t)

	v, err := New(testSiteIRI).DecodeValue([]byte(`{"value":{"entity-type":"property","numeric-id":279},"type":"wikibase-entityid"}`))
	is.NoErr(err)
	is.True(v.Equal(values.NewEntityRef(ids.NewPropertyID(testSiteIRI, 279))))
}

func TestDecodeGlobeCoordinateWithoutPrecision(t *testing.T) {
	is := is.New(t)

	v, err := New(testSiteIRI).DecodeValue([]byte(`{"value":{"latitude":1,"longitude":2,"altitude":null,"precision":null,"globe":"http://www.wikidata.org/entity/Q2"},"type":"globecoordinate"}`))
	is.NoErr(err)
	is.Equal(v.(values.GlobeCoordinate).Precision(), 0.0)
}

func TestDecodeUnknownValueType(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeValue([]byte(`{"value":"x","type":"foo"}`))
	is.True(errors.Is(err, wberrors.ErrUnrecognizedValueKind))
}

func TestDecodeValueWithMissingField(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeValue([]byte(`{"value":{"time":"+2001-01-01T00:00:00Z"},"type":"time"}`))
	is.True(errors.Is(err, wberrors.ErrMalformedValue))

	_, err = New(testSiteIRI).DecodeValue([]byte(`{"value":{"unit":"1"},"type":"quantity"}`))
	is.True(errors.Is(err, wberrors.ErrMalformedValue))

	_, err = New(testSiteIRI).DecodeValue([]byte(`{"value":{"amount":"abc","unit":"1"},"type":"quantity"}`))
	is.True(errors.Is(err, wberrors.ErrMalformedValue))
}

func TestDecodeQuantityWithInvertedBounds(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeValue([]byte(`{"value":{"amount":"+1","unit":"1","upperBound":"+3","lowerBound":"+2"},"type":"quantity"}`))
	is.True(errors.Is(err, wberrors.ErrInvalidValueRange))
}

func TestDecodeSnakWithMismatchedDatatype(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeSnak([]byte(`{"snaktype":"value","property":"P1","datatype":"time","datavalue":{"value":"x","type":"string"}}`))
	is.True(errors.Is(err, wberrors.ErrUnrecognizedValueKind))
}

func TestDecodeNoValueSnakWithDataValue(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeSnak([]byte(`{"snaktype":"novalue","property":"P1","datavalue":{"value":"x","type":"string"}}`))
	is.True(errors.Is(err, wberrors.ErrUnrecognizedSnakKind))
}

func TestDecodeUnknownSnakType(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeSnak([]byte(`{"snaktype":"maybe","property":"P1"}`))
	is.True(errors.Is(err, wberrors.ErrUnrecognizedSnakKind))
}

func TestDecodeStatementWithQualifiersOrder(t *testing.T) {
	is := is.New(t)

	s, err := New(testSiteIRI).DecodeStatement([]byte(`{"mainsnak":{"snaktype":"novalue","property":"P1"},"type":"statement",` +
		`"qualifiers":{"P2":[{"snaktype":"novalue","property":"P2"}],"P3":[{"snaktype":"somevalue","property":"P3"}]},` +
		`"qualifiers-order":["P3","P2"],"id":"Q1$1","rank":"preferred"}`))
	is.NoErr(err)
	is.Equal(s.Rank(), statements.RankPreferred)

	qualifiers := s.Qualifiers()
	is.Equal(len(qualifiers), 2)
	is.Equal(qualifiers[0].Property().ID(), "P3")
}

func TestDecodeUnknownEntityKind(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"lexeme","id":"L1"}`))
	is.True(errors.Is(err, wberrors.ErrUnknownEntityKind))

	_, err = New(testSiteIRI).DecodeEntity([]byte(`{"id":"Q1"}`))
	is.True(errors.Is(err, wberrors.ErrUnknownEntityKind))
}

func TestDecodeEntityWithoutID(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","labels":{}}`))
	is.True(errors.Is(err, wberrors.ErrMalformedDocument))
}

func TestDecodeMalformedDocument(t *testing.T) {
	is := is.New(t)

	for _, doc := range []string{``, `null`, `[1]`, `{"type":"item"`, `{"type":"item","id":"P1"}`} {
		_, err := New(testSiteIRI).DecodeEntity([]byte(doc))
		is.True(errors.Is(err, wberrors.ErrMalformedDocument)) // should reject malformed document
	}
}

func TestDecodeDuplicateLabel(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","labels":{"en":{"language":"en","value":"a"},"en":{"language":"en","value":"b"}}}`))
	is.True(errors.Is(err, wberrors.ErrDuplicateLanguageEntry))
}

func TestDecodeDuplicateSiteLink(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","sitelinks":{"enwiki":{"site":"enwiki","title":"A","badges":[]},"enwiki":{"site":"enwiki","title":"B","badges":[]}}}`))
	is.True(errors.Is(err, wberrors.ErrDuplicateSiteLink))
}

func TestDecodeDuplicateStatementID(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","claims":{` +
		`"P1":[{"mainsnak":{"snaktype":"novalue","property":"P1"},"type":"statement","id":"Q1$1","rank":"normal"}],` +
		`"P2":[{"mainsnak":{"snaktype":"novalue","property":"P2"},"type":"statement","id":"Q1$1","rank":"normal"}]}}`))
	is.True(errors.Is(err, wberrors.ErrDuplicateStatementID))
}

func TestDecodeLabelServedWithLanguageFallback(t *testing.T) {
	is := is.New(t)

	const fallbackJSON string = `{"type":"item","id":"Q1","labels":{"de-ch":{"language":"de","value":"Stadt"}},"descriptions":{"de-ch":{"language":"de","value":"Ort"}},"aliases":{},"claims":{},"sitelinks":{}}`

	doc, err := New(testSiteIRI).DecodeEntity([]byte(fallbackJSON))
	is.NoErr(err)

	label, ok := doc.Label("de-ch")
	is.True(ok)
	is.Equal(label.Language(), "de")
	is.Equal(label.Text(), "Stadt")

	description, ok := doc.Description("de-ch")
	is.True(ok)
	is.Equal(description.Language(), "de")

	b, err := New(testSiteIRI).EncodeEntity(doc)
	is.NoErr(err)
	is.Equal(string(b), fallbackJSON)
}

func TestDecodeMismatchedAliasLanguage(t *testing.T) {
	is := is.New(t)

	_, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","aliases":{"en":[{"language":"fr","value":"a"}]}}`))
	is.True(errors.Is(err, wberrors.ErrMalformedDocument))
}

func TestThatAFailedDecodeReturnsNoDocument(t *testing.T) {
	is := is.New(t)

	c := New(testSiteIRI)

	for _, doc := range []string{
		`{"type":"item","id":"Q1","sitelinks":{"enwiki":{"site":"enwiki","title":"A","badges":["P1"]}}}`,
		`{"type":"property","id":"P1"}`,
	} {
		entity, err := c.DecodeEntity([]byte(doc))
		is.True(err != nil)
		is.True(entity == nil) // a failed decode must not return a typed nil document

		_, err = c.EncodeEntity(entity)
		is.True(errors.Is(err, wberrors.ErrMalformedDocument))
	}
}

func TestDecodeEmptyMembersWrittenAsArrays(t *testing.T) {
	is := is.New(t)

	doc, err := New(testSiteIRI).DecodeEntity([]byte(`{"type":"item","id":"Q1","labels":[],"descriptions":[],"aliases":[],"claims":[],"sitelinks":[]}`))
	is.NoErr(err)
	is.Equal(len(doc.Labels()), 0)
}

func TestDecodeAPIResponse(t *testing.T) {
	is := is.New(t)

	docs, err := New(testSiteIRI).DecodeEntities([]byte(apiResponseJSON))
	is.NoErr(err)
	is.Equal(len(docs), 2)
	is.Equal(docs[0].EntityID().ID(), "Q2")
	is.Equal(docs[1].EntityID().ID(), "P1")
}

func TestDecodeEntityArray(t *testing.T) {
	is := is.New(t)

	docs, err := New(testSiteIRI).DecodeEntities([]byte(`[{"type":"item","id":"Q3"},{"type":"item","id":"Q1"}]`))
	is.NoErr(err)
	is.Equal(len(docs), 2)
	is.Equal(docs[0].EntityID().ID(), "Q3")

	b, err := New(testSiteIRI).EncodeEntities(docs)
	is.NoErr(err)
	is.True(bytes.HasPrefix(b, []byte(`[{"type":"item","id":"Q3"`)))
}

func TestDecodeSingleEntityAsList(t *testing.T) {
	is := is.New(t)

	docs, err := New(testSiteIRI).DecodeEntities([]byte(`{"type":"item","id":"Q3"}`))
	is.NoErr(err)
	is.Equal(len(docs), 1)
}

const itemWithTwoStatementsJSON string = `{"type":"item","id":"Q1","claims":{"P31":[
	{"mainsnak":{"snaktype":"value","property":"P31","datavalue":{"value":{"entity-type":"item","numeric-id":5,"id":"Q5"},"type":"wikibase-entityid"},"datatype":"wikibase-item"},"type":"statement","id":"Q1$first","rank":"normal"},
	{"mainsnak":{"snaktype":"somevalue","property":"P31"},"type":"statement","id":"Q1$second","rank":"normal"}
]}}`

const fullItemJSON string = `{"type":"item","id":"Q42",` +
	`"labels":{"en":{"language":"en","value":"Douglas Adams"},"sv":{"language":"sv","value":"Douglas Adams"}},` +
	`"descriptions":{"en":{"language":"en","value":"English writer and humorist"}},` +
	`"aliases":{"en":[{"language":"en","value":"Douglas Noel Adams"},{"language":"en","value":"DNA"}]},` +
	`"claims":{` +
	`"P31":[{"mainsnak":{"snaktype":"value","property":"P31","datatype":"wikibase-item","datavalue":{"value":{"entity-type":"item","numeric-id":5,"id":"Q5"},"type":"wikibase-entityid"}},"type":"statement","id":"Q42$F078E5B3-F9A8-480E-B7AC-D97778CBBEF9","rank":"normal",` +
	`"references":[{"hash":"fa278ebfc458360e5aed63d5058cca83c46134f1","snaks":{"P143":[{"snaktype":"value","property":"P143","datatype":"wikibase-item","datavalue":{"value":{"entity-type":"item","numeric-id":328,"id":"Q328"},"type":"wikibase-entityid"}}]},"snaks-order":["P143"]}]}],` +
	`"P569":[{"mainsnak":{"snaktype":"value","property":"P569","datatype":"time","datavalue":{"value":{"time":"+1952-03-11T00:00:00Z","timezone":0,"before":0,"after":0,"precision":11,"calendarmodel":"http://www.wikidata.org/entity/Q1985727"},"type":"time"}},"type":"statement",` +
	`"qualifiers":{"P1480":[{"snaktype":"somevalue","property":"P1480"}]},"qualifiers-order":["P1480"],"id":"Q42$D8404CDA-25E4-4334-AF13-A3290BCD9C0F","rank":"preferred"}],` +
	`"P1082":[{"mainsnak":{"snaktype":"value","property":"P1082","datatype":"quantity","datavalue":{"value":{"amount":"+1","unit":"1","upperBound":"+2","lowerBound":"+0.5"},"type":"quantity"}},"type":"statement","id":"Q42$1","rank":"deprecated"}],` +
	`"P625":[{"mainsnak":{"snaktype":"value","property":"P625","datatype":"globe-coordinate","datavalue":{"value":{"latitude":52.5,"longitude":-1.25,"precision":0.01,"globe":"http://www.wikidata.org/entity/Q2"},"type":"globecoordinate"}},"type":"statement","id":"Q42$2","rank":"normal"}],` +
	`"P1559":[{"mainsnak":{"snaktype":"value","property":"P1559","datatype":"monolingualtext","datavalue":{"value":{"text":"Douglas Adams","language":"en"},"type":"monolingualtext"}},"type":"statement","id":"Q42$3","rank":"normal"}],` +
	`"P18":[{"mainsnak":{"snaktype":"novalue","property":"P18"},"type":"statement","id":"Q42$4","rank":"normal"}]` +
	`},` +
	`"sitelinks":{"enwiki":{"site":"enwiki","title":"Douglas Adams","badges":["Q17437796"]}},` +
	`"lastrevid":1234}`

const propertyJSON string = `{"type":"property","datatype":"wikibase-item","id":"P31","labels":{"en":{"language":"en","value":"instance of"}},"descriptions":{},"aliases":{},"claims":{},"lastrevid":5}`

const apiResponseJSON string = `{"entities":{
	"Q2":{"pageid":138,"ns":0,"title":"Q2","lastrevid":10,"modified":"2024-01-01T00:00:00Z","type":"item","id":"Q2","labels":{"en":{"language":"en","value":"Earth"}}},
	"Q404":{"id":"Q404","missing":""},
	"P1":{"type":"property","datatype":"string","id":"P1"}
},"success":1}`
