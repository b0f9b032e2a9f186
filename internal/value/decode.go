package value

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DecodeJSON reads a JSON document into a Value. It decodes at the token
// level so that object key order is preserved and integers are not widened
// to float64 the way map[string]any decoding would.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Null(), err
	}

	// Reject trailing garbage after the document.
	if _, err := dec.Token(); err != io.EOF {
		return Null(), fmt.Errorf("unexpected content after JSON document")
	}
	return v, nil
}

// DecodeJSONString is a convenience wrapper over DecodeJSON.
func DecodeJSONString(s string) (Value, error) {
	return DecodeJSON(strings.NewReader(s))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return Null(), fmt.Errorf("unexpected JSON token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Mapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Null(), err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Null(), fmt.Errorf("non-string object key %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Null(), err
		}
		obj.Set(key, v)
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return Null(), err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Null(), err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil {
		return Null(), err
	}
	return Sequence(elems...), nil
}
