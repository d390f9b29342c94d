// Copyright 2017-2020 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package token defines the types and values emitted by the pytok tokenizer.
//
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Type represents a token's type.
//
type Type int

// Token types.
//
const (
	Name      Type = iota // identifier or keyword
	Operator              // operator, bracket or punctuation
	Number                // integer, float or imaginary literal
	String                // string literal, possibly spanning several lines
	NewLine               // significant line terminator
	Indent                // increase of the indentation level
	Dedent                // decrease of the indentation level
	EndMarker             // end of the token stream
	Error                 // unrecognized or unterminated input
	Comment               // reserved; comments end up in token prefixes instead
)

var names = [...]string{
	Name:      "NAME",
	Operator:  "OP",
	Number:    "NUMBER",
	String:    "STRING",
	NewLine:   "NEWLINE",
	Indent:    "INDENT",
	Dedent:    "DEDENT",
	EndMarker: "ENDMARKER",
	Error:     "ERRORTOKEN",
	Comment:   "COMMENT",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(names) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return names[t]
}

// Position is a source position. Line is 1-based (plus any line offset the
// tokenizer was configured with). Col is 0-based and counts runes, not bytes,
// so that positions agree with editors that index columns by character.
//
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// A Token is one unit of the token stream.
//
// Value holds the literal source text of the token. Prefix holds the
// whitespace, comments, insignificant line terminators and explicit line
// continuations that precede the token. Concatenating Prefix and Value over
// a whole stream, EndMarker included, reproduces the source text exactly.
//
// Start is set when the token is created and never changes. The end position
// is derived, see End.
//
type Token struct {
	Type   Type
	Value  string
	Start  Position
	Prefix string
}

// End returns the position just past the token. For values spanning several
// physical lines the line advances by the number of embedded terminators and
// the column restarts on the last fragment; a single trailing terminator
// counts as part of the last fragment.
//
func (t Token) End() Position {
	lines := strings.Split(t.Value, "\n")
	if strings.HasSuffix(t.Value, "\n") {
		lines = lines[:len(lines)-1]
		lines[len(lines)-1] += "\n"
	}
	last := utf8.RuneCountInString(lines[len(lines)-1])
	if len(lines) == 1 {
		return Position{t.Start.Line, t.Start.Col + last}
	}
	return Position{t.Start.Line + len(lines) - 1, last}
}

func (t Token) String() string {
	return fmt.Sprintf("<%v %s, %q>", t.Start, t.Type, t.Value)
}
