/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package literal reads and writes the Python literal notation used by the
// result tables: configuration row labels are dict literals and sweep row keys
// are tuple literals.
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the kind of a literal value.
type Kind int

const (
	// NoneKind is the None literal.
	NoneKind Kind = iota

	// BoolKind is True or False.
	BoolKind

	// NumberKind is an integer or float literal.
	NumberKind

	// StringKind is a quoted string literal.
	StringKind

	// ListKind is a [...] literal.
	ListKind

	// TupleKind is a (...) literal.
	TupleKind

	// DictKind is a {...} literal.
	DictKind
)

// Entry is one key/value pair of a dict literal.
type Entry struct {
	Key   string
	Value Value
}

// Value is a parsed literal.
type Value struct {
	Kind Kind

	// Text holds the content of strings and the source text of numbers.
	Text string

	// Bool holds the value of BoolKind.
	Bool bool

	// Items holds elements of lists and tuples.
	Items []Value

	// Entries holds dict entries in source order.
	Entries []Entry
}

// None returns the None literal.
func None() Value {
	return Value{Kind: NoneKind}
}

// String returns a string literal.
func String(s string) Value {
	return Value{Kind: StringKind, Text: s}
}

// Int returns an integer literal.
func Int(i int64) Value {
	return Value{Kind: NumberKind, Text: strconv.FormatInt(i, 10)}
}

// Float returns a float literal formatted the way Python prints floats.
func Float(f float64) Value {
	return Value{Kind: NumberKind, Text: FormatFloat(f)}
}

// Tuple returns a tuple literal.
func Tuple(items ...Value) Value {
	return Value{Kind: TupleKind, Items: items}
}

// FormatFloat formats f like Python's repr of a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// IsNone reports whether v is None.
func (v Value) IsNone() bool {
	return v.Kind == NoneKind
}

// Float64 returns the numeric value of v.
func (v Value) Float64() (float64, error) {
	if v.Kind != NumberKind {
		return 0, fmt.Errorf("literal %s is not a number", v.Repr())
	}

	return strconv.ParseFloat(v.Text, 64)
}

// Int64 returns the integer value of v.
func (v Value) Int64() (int64, error) {
	if v.Kind != NumberKind {
		return 0, fmt.Errorf("literal %s is not a number", v.Repr())
	}

	return strconv.ParseInt(v.Text, 10, 64)
}

// Get returns the value of key in a dict literal.
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return Value{}, false
}

// Keys returns the keys of a dict literal in source order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		keys = append(keys, e.Key)
	}

	return keys
}

// Str renders v the way Python's str() does.
func (v Value) Str() string {
	if v.Kind == StringKind {
		return v.Text
	}

	return v.Repr()
}

// Repr renders v the way Python's repr() does.
func (v Value) Repr() string {
	switch v.Kind {
	case NoneKind:
		return "None"
	case BoolKind:
		if v.Bool {
			return "True"
		}
		return "False"
	case NumberKind:
		return v.Text
	case StringKind:
		return quote(v.Text)
	case ListKind:
		return "[" + joinRepr(v.Items) + "]"
	case TupleKind:
		if len(v.Items) == 1 {
			return "(" + v.Items[0].Repr() + ",)"
		}
		return "(" + joinRepr(v.Items) + ")"
	case DictKind:
		parts := make([]string, 0, len(v.Entries))
		for _, e := range v.Entries {
			parts = append(parts, quote(e.Key)+": "+e.Value.Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}

	return ""
}

func joinRepr(items []Value) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Repr())
	}

	return strings.Join(parts, ", ")
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
