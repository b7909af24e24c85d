package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/buger/jsonparser"
)

// ErrMalformed is returned when a template is not a single valid JSON document.
var ErrMalformed = errors.New("malformed JSON")

// Parse decodes a JSON document into a Node tree, keeping object keys in
// document order. When a key repeats, the last value wins and the key keeps
// its first position.
func Parse(data []byte) (Node, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrMalformed)
	}

	// jsonparser does not validate, so reject bad input up front
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return parseValue(value, dataType)
}

func parseValue(value []byte, dataType jsonparser.ValueType) (Node, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return String(s), nil

	case jsonparser.Number, jsonparser.Boolean, jsonparser.Null:
		return Literal(value), nil

	case jsonparser.Array:
		return parseArray(value)

	case jsonparser.Object:
		return parseObject(value)
	}
	return nil, fmt.Errorf("%w: unexpected value %q", ErrMalformed, value)
}

func parseArray(data []byte) (Node, error) {
	seq := Sequence{}
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		item, err := parseValue(value, dataType)
		if err != nil {
			firstErr = err
			return
		}
		seq = append(seq, item)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return seq, nil
}

func parseObject(data []byte) (Node, error) {
	m := NewMapping()
	// ObjectEach hands over keys already unescaped
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		item, err := parseValue(value, dataType)
		if err != nil {
			return err
		}
		m.Set(string(key), item)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return m, nil
}
