// Package jsonobject reads and writes JSON objects whose key order matters.
// The wire format groups statements, qualifiers and reference snaks in JSON
// objects and the order of those groups is significant.
package jsonobject

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

var ErrNotAnObject = errors.New("not a json object")

type Member struct {
	Key   string
	Value json.RawMessage
}

// IsNull reports whether raw is absent or the JSON literal null
func IsNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// Keys returns the top level keys of the object in data in document order.
// Duplicated keys are returned once per occurrence.
func Keys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotAnObject
	}

	keys := []string{}

	for {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read object key: %w", err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return keys, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v where an object key was expected", tok)
		}
		keys = append(keys, key)

		if err = skipValue(dec); err != nil {
			return nil, err
		}
	}
}

func skipValue(dec *json.Decoder) error {
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return fmt.Errorf("failed to read object value: %w", err)
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}

		if depth == 0 {
			return nil
		}
	}
}

// Members returns the members of the object in data in document order. A null
// or empty input yields no members. For duplicated keys every occurrence carries
// the value that was seen last.
func Members(data []byte) ([]Member, error) {
	if IsNull(data) {
		return nil, nil
	}

	keys, err := Keys(data)
	if err != nil {
		return nil, err
	}

	values := map[string]json.RawMessage{}
	if err = json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal object: %w", err)
	}

	members := make([]Member, 0, len(keys))
	for _, k := range keys {
		members = append(members, Member{Key: k, Value: values[k]})
	}

	return members, nil
}

// Writer builds a JSON object with members in the order they are added
type Writer struct {
	buf   bytes.Buffer
	count int
}

func NewWriter() *Writer {
	w := &Writer{}
	w.buf.WriteByte('{')
	return w
}

func (w *Writer) Add(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	w.AddRaw(key, b)
	return nil
}

func (w *Writer) AddRaw(key string, raw []byte) {
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.count++

	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
}

func (w *Writer) Len() int {
	return w.count
}

func (w *Writer) Bytes() []byte {
	b := make([]byte, 0, w.buf.Len()+1)
	b = append(b, w.buf.Bytes()...)
	return append(b, '}')
}
