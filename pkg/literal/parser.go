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

package literal

import (
	"fmt"
	"strings"
)

// Parse parses a single literal.
func Parse(s string) (Value, error) {
	p := &parser{src: s}
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return Value{}, p.errorf("unexpected trailing input")
	}

	return v, nil
}

// ParseDict parses a dict literal.
func ParseDict(s string) (Value, error) {
	v, err := Parse(s)
	if err != nil {
		return Value{}, err
	}

	if v.Kind != DictKind {
		return Value{}, fmt.Errorf("literal %q is not a dict", s)
	}

	return v, nil
}

// ParseTuple parses a tuple literal.
func ParseTuple(s string) (Value, error) {
	v, err := Parse(s)
	if err != nil {
		return Value{}, err
	}

	if v.Kind != TupleKind {
		return Value{}, fmt.Errorf("literal %q is not a tuple", s)
	}

	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse literal %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) value() (Value, error) {
	switch c := p.peek(); {
	case c == 0:
		return Value{}, p.errorf("unexpected end of input")
	case c == '{':
		return p.dict()
	case c == '[':
		items, err := p.sequence('[', ']')
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ListKind, Items: items}, nil
	case c == '(':
		return p.tuple()
	case c == '\'' || c == '"':
		s, err := p.str()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.name()
	}
}

func (p *parser) dict() (Value, error) {
	p.pos++
	v := Value{Kind: DictKind}
	for {
		if p.peek() == '}' {
			p.pos++
			return v, nil
		}

		key, err := p.value()
		if err != nil {
			return Value{}, err
		}

		if p.peek() != ':' {
			return Value{}, p.errorf("expected ':'")
		}
		p.pos++

		val, err := p.value()
		if err != nil {
			return Value{}, err
		}
		v.Entries = append(v.Entries, Entry{Key: key.Str(), Value: val})

		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return Value{}, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *parser) tuple() (Value, error) {
	start := p.pos
	items, err := p.sequence('(', ')')
	if err != nil {
		return Value{}, err
	}

	// A parenthesized single value without a trailing comma is not a tuple.
	if len(items) == 1 && !strings.HasSuffix(strings.TrimSpace(p.src[start:p.pos-1]), ",") {
		return items[0], nil
	}

	return Value{Kind: TupleKind, Items: items}, nil
}

func (p *parser) sequence(open, close byte) ([]Value, error) {
	if p.peek() != open {
		return nil, p.errorf("expected %q", open)
	}
	p.pos++

	items := []Value{}
	for {
		if p.peek() == close {
			p.pos++
			return items, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		switch p.peek() {
		case ',':
			p.pos++
		case close:
		default:
			return nil, p.errorf("expected ',' or %q", close)
		}
	}
}

func (p *parser) str() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}

	return "", p.errorf("unterminated string")
}

func (p *parser) number() (Value, error) {
	start := p.pos
	if c := p.src[p.pos]; c == '-' || c == '+' {
		p.pos++
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '_' {
			p.pos++
			continue
		}

		// Exponent with an optional sign.
		if c == 'e' || c == 'E' {
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
				p.pos++
			}
			continue
		}
		break
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	text = strings.TrimPrefix(text, "+")
	if text == "" || text == "-" || text == "." {
		return Value{}, p.errorf("invalid number")
	}

	return Value{Kind: NumberKind, Text: text}, nil
}

func (p *parser) name() (Value, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			break
		}
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "None":
		return None(), nil
	case "True":
		return Value{Kind: BoolKind, Bool: true}, nil
	case "False":
		return Value{Kind: BoolKind, Bool: false}, nil
	case "":
		return Value{}, p.errorf("unexpected character %q", p.src[start])
	default:
		return Value{}, p.errorf("unsupported name %q", word)
	}
}
