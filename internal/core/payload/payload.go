// Package payload decodes JSON into a document model that keeps object fields
// in the order the producer wrote them.
//
// Values are one of: *Object, []any, string, json.Number, bool, or nil.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object whose fields keep first-insertion order.
// A repeated key replaces the earlier value but keeps its position.
type Object struct {
	fields []Field
	index  map[string]int
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set stores value under key. New keys are appended, existing keys are
// overwritten in place.
func (o *Object) Set(key string, value any) {
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = value
		return
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.fields[i].Value, true
}

// Fields returns the fields in stored order. The slice must not be modified.
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	return o.fields
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Sorted returns a deep copy with every nested object's keys in ascending order.
func (o *Object) Sorted() *Object {
	out := NewObject()
	keys := make([]string, 0, len(o.fields))
	for _, f := range o.fields {
		keys = append(keys, f.Key)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := o.Get(k)
		out.Set(k, Sort(v))
	}
	return out
}

// Sort returns v with the keys of every object inside it sorted. Scalars are
// returned unchanged.
func Sort(v any) any {
	switch val := v.(type) {
	case *Object:
		return val.Sorted()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Sort(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the object with its fields in stored order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrTrailingData is returned when more than one JSON value is present.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Parse decodes exactly one JSON value.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// string, json.Number, bool, nil
		return t, nil
	}
}

func parseObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %T", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
