package statements

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/diwise/wikibase-datamodel/internal/pkg/jsonobject"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/ids"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
)

type Rank string

const (
	RankPreferred  Rank = "preferred"
	RankNormal     Rank = "normal"
	RankDeprecated Rank = "deprecated"
)

func ParseRank(s string) (Rank, error) {
	switch r := Rank(s); r {
	case RankPreferred, RankNormal, RankDeprecated:
		return r, nil
	}
	return "", errors.NewMalformedValueError("unknown rank %q", s)
}

// Reference is a group of snaks backing up a statement
type Reference struct {
	hash  string
	snaks []types.Snak
}

// NewReference groups the snaks by property in the order each property first appears
func NewReference(hash string, snaks ...types.Snak) (Reference, error) {
	for _, snak := range snaks {
		if snak == nil {
			return Reference{}, errors.NewMalformedValueError("reference %q has an empty snak", hash)
		}
	}
	return Reference{hash: hash, snaks: groupByProperty(snaks)}, nil
}

func (r Reference) Hash() string { return r.hash }

func (r Reference) Snaks() []types.Snak {
	return append([]types.Snak{}, r.snaks...)
}

func (r Reference) Equal(other Reference) bool {
	return r.hash == other.hash && equalSnaks(r.snaks, other.snaks)
}

func (r Reference) MarshalJSON() ([]byte, error) {
	w := jsonobject.NewWriter()
	if r.hash != "" {
		if err := w.Add("hash", r.hash); err != nil {
			return nil, err
		}
	}

	groups, order, err := marshalSnakGroups(r.snaks)
	if err != nil {
		return nil, err
	}

	w.AddRaw("snaks", groups)
	if err = w.Add("snaks-order", order); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

type StatementDecoratorFunc func(s *Statement)

// Statement is an identified and ranked assertion about an entity. A statement
// does not know its subject, the document that owns it provides that.
type Statement struct {
	id         string
	mainSnak   types.Snak
	qualifiers []types.Snak
	rank       Rank
	references []Reference
}

// New creates a statement with normal rank unless decorated otherwise. Qualifiers
// are grouped by property in the order each property first appears.
func New(id string, mainSnak types.Snak, decorators ...StatementDecoratorFunc) (*Statement, error) {
	if mainSnak == nil {
		return nil, errors.NewMalformedValueError("statement %q has no main snak", id)
	}

	s := &Statement{
		id:       id,
		mainSnak: mainSnak,
		rank:     RankNormal,
	}

	for _, decorator := range decorators {
		decorator(s)
	}

	if _, err := ParseRank(string(s.rank)); err != nil {
		return nil, err
	}

	for _, q := range s.qualifiers {
		if q == nil {
			return nil, errors.NewMalformedValueError("statement %q has an empty qualifier", id)
		}
	}

	s.qualifiers = groupByProperty(s.qualifiers)

	return s, nil
}

func Qualifier(snak types.Snak) StatementDecoratorFunc {
	return func(s *Statement) { s.qualifiers = append(s.qualifiers, snak) }
}

func Qualifiers(snaks ...types.Snak) StatementDecoratorFunc {
	return func(s *Statement) { s.qualifiers = append(s.qualifiers, snaks...) }
}

func WithRank(rank Rank) StatementDecoratorFunc {
	return func(s *Statement) { s.rank = rank }
}

func WithReference(ref Reference) StatementDecoratorFunc {
	return func(s *Statement) { s.references = append(s.references, ref) }
}

// NewID returns a fresh statement id for the given subject, e.g. Q42$F078E5B3-F9A8-480E-B7AC-D97778CBBEF9
func NewID(subject ids.EntityID) string {
	return subject.ID() + "$" + strings.ToUpper(uuid.New().String())
}

func (s *Statement) ID() string             { return s.id }
func (s *Statement) MainSnak() types.Snak   { return s.mainSnak }
func (s *Statement) Property() ids.EntityID { return s.mainSnak.Property() }
func (s *Statement) Rank() Rank             { return s.rank }

func (s *Statement) Qualifiers() []types.Snak {
	return append([]types.Snak{}, s.qualifiers...)
}

func (s *Statement) References() []Reference {
	return append([]Reference{}, s.references...)
}

func (s *Statement) Claim(subject ids.EntityID) Claim {
	return Claim{subject: subject, statement: s}
}

func (s *Statement) Equal(other *Statement) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.id != other.id || s.rank != other.rank || !s.mainSnak.Equal(other.mainSnak) {
		return false
	}

	if !equalSnaks(s.qualifiers, other.qualifiers) || len(s.references) != len(other.references) {
		return false
	}

	for i := range s.references {
		if !s.references[i].Equal(other.references[i]) {
			return false
		}
	}

	return true
}

func (s *Statement) MarshalJSON() ([]byte, error) {
	w := jsonobject.NewWriter()

	if err := w.Add("mainsnak", s.mainSnak); err != nil {
		return nil, err
	}
	w.AddRaw("type", []byte(`"statement"`))

	if len(s.qualifiers) > 0 {
		groups, order, err := marshalSnakGroups(s.qualifiers)
		if err != nil {
			return nil, err
		}
		w.AddRaw("qualifiers", groups)
		if err = w.Add("qualifiers-order", order); err != nil {
			return nil, err
		}
	}

	if s.id != "" {
		if err := w.Add("id", s.id); err != nil {
			return nil, err
		}
	}

	if err := w.Add("rank", s.rank); err != nil {
		return nil, err
	}

	if len(s.references) > 0 {
		if err := w.Add("references", s.references); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// Claim is a read only view of a statement together with the entity it is about
type Claim struct {
	subject   ids.EntityID
	statement *Statement
}

func (c Claim) Subject() ids.EntityID    { return c.subject }
func (c Claim) Property() ids.EntityID   { return c.statement.Property() }
func (c Claim) MainSnak() types.Snak     { return c.statement.mainSnak }
func (c Claim) Qualifiers() []types.Snak { return c.statement.Qualifiers() }
func (c Claim) StatementID() string      { return c.statement.id }

// StatementGroup holds the statements of one entity that share a main snak property
type StatementGroup struct {
	subject    ids.EntityID
	property   ids.EntityID
	statements []*Statement
}

func (g StatementGroup) Subject() ids.EntityID  { return g.subject }
func (g StatementGroup) Property() ids.EntityID { return g.property }
func (g StatementGroup) Len() int               { return len(g.statements) }

func (g StatementGroup) Statements() []*Statement {
	return append([]*Statement{}, g.statements...)
}

func (g StatementGroup) Claims() []Claim {
	claims := make([]Claim, 0, len(g.statements))
	for _, s := range g.statements {
		claims = append(claims, s.Claim(g.subject))
	}
	return claims
}

// Group splits statements into groups by main snak property. Groups appear in the
// order their property is first seen and keep the statement order within them.
func Group(subject ids.EntityID, statements []*Statement) []StatementGroup {
	groups := []StatementGroup{}
	index := map[string]int{}

	for _, s := range statements {
		key := s.Property().ID()

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, StatementGroup{subject: subject, property: s.Property()})
		}

		groups[i].statements = append(groups[i].statements, s)
	}

	return groups
}

func groupByProperty(snaks []types.Snak) []types.Snak {
	if len(snaks) < 2 {
		return snaks
	}

	order := []string{}
	byProperty := map[string][]types.Snak{}

	for _, s := range snaks {
		key := s.Property().ID()
		if _, ok := byProperty[key]; !ok {
			order = append(order, key)
		}
		byProperty[key] = append(byProperty[key], s)
	}

	grouped := make([]types.Snak, 0, len(snaks))
	for _, key := range order {
		grouped = append(grouped, byProperty[key]...)
	}

	return grouped
}

// marshalSnakGroups writes already grouped snaks as an object keyed by property
// and returns the property order alongside it
func marshalSnakGroups(snaks []types.Snak) ([]byte, []string, error) {
	w := jsonobject.NewWriter()
	order := []string{}

	for start := 0; start < len(snaks); {
		property := snaks[start].Property()

		end := start + 1
		for end < len(snaks) && snaks[end].Property().Equal(property) {
			end++
		}

		b, err := json.Marshal(snaks[start:end])
		if err != nil {
			return nil, nil, err
		}

		w.AddRaw(property.ID(), b)
		order = append(order, property.ID())
		start = end
	}

	return w.Bytes(), order, nil
}

func equalSnaks(a, b []types.Snak) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}
