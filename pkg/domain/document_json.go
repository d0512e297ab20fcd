package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalJSON parses JSON into a Document, preserving object key order.
// It walks the token stream directly because encoding/json maps would
// lose ordering.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func decodeValue(dec *json.Decoder) (Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return Document{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Document{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Document{}, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return Float(f), nil
	case nil:
		// No null variant; represent as the empty string scalar.
		return String(""), nil
	default:
		return Document{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Document, error) {
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Document{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Document{}, fmt.Errorf("object key is not a string: %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return Document{}, err
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Document{}, err
	}
	return Object(fields...), nil
}

func decodeArray(dec *json.Decoder) (Document, error) {
	var items []Document
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Document{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Document{}, err
	}
	return Array(items...), nil
}
