package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrNotObject = errors.New("models: json body is not an object")

// Tree is a decoded JSON object as returned by the chess.com API. Any key may
// be missing at any depth, so values are only reachable through the accessors
// below, all of which report whether the value was present.
//
// Paths are dot-separated keys, e.g. "chess_rapid.last.rating".
type Tree map[string]any

// ParseTree decodes a JSON object. Numbers are kept as [json.Number] so that
// ratings and timestamps survive without float rounding.
func ParseTree(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	return Tree(m), nil
}

// Lookup returns the value at path. Explicit JSON nulls count as missing.
func (t Tree) Lookup(path string) (any, bool) {
	var cur any = map[string]any(t)

	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}

	return cur, cur != nil
}

// Sub returns the object at path.
func (t Tree) Sub(path string) (Tree, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return nil, false
	}

	m, ok := v.(map[string]any)
	return Tree(m), ok
}

// String returns the string at path.
func (t Tree) String(path string) (string, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	return s, ok
}

// Int returns the integer at path. Non-integral numbers are rejected.
func (t Tree) Int(path string) (int64, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}

	return 0, false
}

// Float returns the number at path.
func (t Tree) Float(path string) (float64, bool) {
	v, ok := t.Lookup(path)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}

	return 0, false
}
