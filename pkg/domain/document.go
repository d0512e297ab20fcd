package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DocumentKind discriminates the variants of a Document.
type DocumentKind int

const (
	DocInvalid DocumentKind = iota
	DocObject
	DocArray
	DocString
	DocBool
	DocInt
	DocFloat
)

// Field is one key/value pair of an object Document. Object fields keep
// their insertion order so serialization is reproducible.
type Field struct {
	Key   string
	Value Document
}

// Document is the canonical JSON-like tree representation used for all
// emitted telemetry payloads. It is a tagged union of an ordered object,
// an array, and scalar values. Documents are immutable by convention:
// producers build them once and never touch them again.
type Document struct {
	kind   DocumentKind
	fields []Field
	items  []Document
	str    string
	boolV  bool
	intV   int64
	floatV float64
}

// Object builds an object Document from fields, preserving their order.
func Object(fields ...Field) Document {
	return Document{kind: DocObject, fields: fields}
}

// F builds a single object field.
func F(key string, value Document) Field {
	return Field{Key: key, Value: value}
}

// Array builds an array Document.
func Array(items ...Document) Document {
	return Document{kind: DocArray, items: items}
}

// String builds a string scalar Document. The free-text fallback for
// un-modeled plan arguments uses this variant, so the output schema has
// one shape rather than a special case.
func String(s string) Document {
	return Document{kind: DocString, str: s}
}

// Bool builds a boolean scalar Document.
func Bool(b bool) Document {
	return Document{kind: DocBool, boolV: b}
}

// Int builds an integer scalar Document.
func Int(i int64) Document {
	return Document{kind: DocInt, intV: i}
}

// Float builds a floating-point scalar Document.
func Float(f float64) Document {
	return Document{kind: DocFloat, floatV: f}
}

// Strings builds an array Document of string scalars.
func Strings(values ...string) Document {
	items := make([]Document, len(values))
	for i, v := range values {
		items[i] = String(v)
	}
	return Array(items...)
}

// Kind returns the variant tag.
func (d Document) Kind() DocumentKind { return d.kind }

// Fields returns the ordered fields of an object Document. Nil for other kinds.
func (d Document) Fields() []Field { return d.fields }

// Items returns the elements of an array Document. Nil for other kinds.
func (d Document) Items() []Document { return d.items }

// StringValue returns the value of a string scalar.
func (d Document) StringValue() string { return d.str }

// BoolValue returns the value of a boolean scalar.
func (d Document) BoolValue() bool { return d.boolV }

// IntValue returns the value of an integer scalar.
func (d Document) IntValue() int64 { return d.intV }

// Get returns the value for key in an object Document.
func (d Document) Get(key string) (Document, bool) {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Document{}, false
}

// MarshalJSON serializes the Document preserving object field order.
func (d Document) MarshalJSON() ([]byte, error) {
	buf, err := d.appendJSON(nil)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (d Document) appendJSON(buf []byte) ([]byte, error) {
	var err error
	switch d.kind {
	case DocObject:
		buf = append(buf, '{')
		for i, f := range d.fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, kerr := json.Marshal(f.Key)
			if kerr != nil {
				return nil, kerr
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf, err = f.Value.appendJSON(buf)
			if err != nil {
				return nil, err
			}
		}
		buf = append(buf, '}')
	case DocArray:
		buf = append(buf, '[')
		for i, item := range d.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf, err = item.appendJSON(buf)
			if err != nil {
				return nil, err
			}
		}
		buf = append(buf, ']')
	case DocString:
		s, serr := json.Marshal(d.str)
		if serr != nil {
			return nil, serr
		}
		buf = append(buf, s...)
	case DocBool:
		buf = strconv.AppendBool(buf, d.boolV)
	case DocInt:
		buf = strconv.AppendInt(buf, d.intV, 10)
	case DocFloat:
		f, ferr := json.Marshal(d.floatV)
		if ferr != nil {
			return nil, ferr
		}
		buf = append(buf, f...)
	default:
		return nil, fmt.Errorf("invalid document kind %d", d.kind)
	}
	return buf, nil
}

// String returns the canonical serialized form of the Document. This form
// is what the commutative-operator sort in the canonicalizer compares, so
// it must stay deterministic for a given Document.
func (d Document) String() string {
	buf, err := d.appendJSON(nil)
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(buf)
}
