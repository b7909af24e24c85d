// Package payload models a JSON message template as an ordered tree and
// implements token substitution and compact serialization over it.
package payload

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is one value of a JSON document. The concrete types are String,
// Sequence, *Mapping and Literal.
type Node interface {
	node()
}

// String is a JSON string leaf. It is the only node kind that substitution rewrites.
type String string

// Sequence is a JSON array.
type Sequence []Node

// Literal holds the raw JSON text of a number, boolean or null.
type Literal string

// Null is the JSON null literal.
const Null Literal = "null"

// Mapping is a JSON object that remembers the order its keys were first set in.
type Mapping struct {
	fields *orderedmap.OrderedMap[string, Node]
}

// NewMapping creates an empty Mapping
func NewMapping() *Mapping {
	return &Mapping{fields: orderedmap.New[string, Node]()}
}

// Set stores value under key. A key that is already present keeps its position.
func (m *Mapping) Set(key string, value Node) *Mapping {
	m.fields.Set(key, value)
	return m
}

// Each calls fn for every key/value pair in insertion order and stops at the
// first error.
func (m *Mapping) Each(fn func(key string, value Node) error) error {
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func (String) node()   {}
func (Sequence) node() {}
func (Literal) node()  {}
func (*Mapping) node() {}
