package jsonobject

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestKeysAreReturnedInDocumentOrder(t *testing.T) {
	is := is.New(t)

	keys, err := Keys([]byte(`{"P31":[{"a":{"b":[1,2,{"c":null}]}}],"P17":"x","P1":{"P2":true}}`))
	is.NoErr(err)
	is.Equal(keys, []string{"P31", "P17", "P1"})
}

func TestDuplicatedKeysAreReturnedTwice(t *testing.T) {
	is := is.New(t)

	keys, err := Keys([]byte(`{"en":1,"en":2}`))
	is.NoErr(err)
	is.Equal(keys, []string{"en", "en"})
}

func TestKeysOfANonObject(t *testing.T) {
	is := is.New(t)

	_, err := Keys([]byte(`[1,2]`))
	is.True(errors.Is(err, ErrNotAnObject))
}

func TestKeysOfTruncatedInput(t *testing.T) {
	is := is.New(t)

	_, err := Keys([]byte(`{"a":{"b":1`))
	is.True(err != nil) // should fail on truncated input
}

func TestMembers(t *testing.T) {
	is := is.New(t)

	members, err := Members([]byte(`{"b":{"x":1},"a":[true]}`))
	is.NoErr(err)
	is.Equal(len(members), 2)
	is.Equal(members[0].Key, "b")
	is.Equal(string(members[0].Value), `{"x":1}`)
	is.Equal(members[1].Key, "a")
	is.Equal(string(members[1].Value), `[true]`)
}

func TestMembersOfNull(t *testing.T) {
	is := is.New(t)

	members, err := Members([]byte(`null`))
	is.NoErr(err)
	is.Equal(len(members), 0)
}

func TestWriterKeepsInsertionOrder(t *testing.T) {
	is := is.New(t)

	w := NewWriter()
	is.NoErr(w.Add("z", 1))
	w.AddRaw("a", []byte(`{"k":"v"}`))
	is.NoErr(w.Add("m", []string{"x"}))

	is.Equal(w.Len(), 3)
	is.Equal(string(w.Bytes()), `{"z":1,"a":{"k":"v"},"m":["x"]}`)
}

func TestEmptyWriter(t *testing.T) {
	is := is.New(t)

	is.Equal(string(NewWriter().Bytes()), `{}`)
}
