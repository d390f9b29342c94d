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

package pytok

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/db47h/pytok/token"
)

// queue is a FIFO queue.
//
type queue struct {
	items []token.Token
	head  int
	tail  int
	count int
}

func (q *queue) push(tok token.Token) {
	if q.head == q.tail && q.count > 0 {
		items := make([]token.Token, len(q.items)*2)
		copy(items, q.items[q.head:])
		copy(items[len(q.items)-q.head:], q.items[:q.head])
		q.head = 0
		q.tail = len(q.items)
		q.items = items
	}
	q.items[q.tail] = tok
	q.tail = (q.tail + 1) % len(q.items)
	q.count++
}

// pop pops the first item from the queue. Callers must check that q.count > 0
// beforehand.
//
func (q *queue) pop() token.Token {
	i := q.head
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return q.items[i]
}

// A stateFn is a state function. Each call processes a slice of the input
// and returns the next state, queueing any number of tokens along the way.
//
type stateFn func(t *Tokenizer) stateFn

// A Tokenizer turns source text into a stream of tokens. It scans one
// physical line at a time and keeps the indentation stack, the bracket
// nesting level and any pending multi-line string between lines.
//
// A Tokenizer works through its input exactly once and cannot be reset:
// create a new one for every tokenization pass.
//
type Tokenizer struct {
	queue
	readLine ReadLineFunc
	state    stateFn

	line string // current physical line, terminator included
	pos  int    // byte offset of the scan cursor within line
	lnum int    // line number of the current line

	parens      int   // open bracket count
	indents     []int // indentation stack; indents[0] is the 0 sentinel
	newLine     bool  // terminator seen; the next one is not significant
	checkIndent bool  // indentation pending evaluation at the next token

	prefix string // accumulated prefix for the next emitted token

	// pending multi-line string; contEnd is nil when there is none
	contEnd    *regexp.Regexp
	contVal    string
	contAt     token.Position
	contPrefix string
}

// New returns a Tokenizer pulling physical lines from readLine.
//
func New(readLine ReadLineFunc, opts ...Option) *Tokenizer {
	var o options
	for _, f := range opts {
		f(&o)
	}
	return &Tokenizer{
		// initial q size must be an exponent of 2
		queue:    queue{items: make([]token.Token, 2)},
		readLine: readLine,
		state:    stateNextLine,
		lnum:     o.lineOffset,
		indents:  make([]int, 1, 8),
		// the first line of the input has its indentation checked too
		checkIndent: true,
	}
}

// Lex returns the next token in the stream. The stream always ends with a
// single EndMarker; calling Lex again after that keeps returning EndMarker.
//
func (t *Tokenizer) Lex() token.Token {
	for t.count == 0 {
		t.state = t.state(t)
	}
	return t.pop()
}

// emit queues a token and hands it the accumulated prefix.
//
func (t *Tokenizer) emit(at token.Position, typ token.Type, value string) {
	t.push(token.Token{Type: typ, Value: value, Start: at, Prefix: t.prefix})
	t.prefix = ""
}

// emitEmpty queues a zero-width structural token. It carries no prefix and
// leaves the accumulated prefix alone.
//
func (t *Tokenizer) emitEmpty(at token.Position, typ token.Type) {
	t.push(token.Token{Type: typ, Start: at})
}

// column converts a byte offset in the current line to a rune column.
//
func (t *Tokenizer) column(off int) int {
	return utf8.RuneCountInString(t.line[:off])
}

// stateNextLine fetches the next physical line or, once the source is
// exhausted, flushes any pending string as an error, unwinds the indentation
// stack and terminates the stream.
//
func stateNextLine(t *Tokenizer) stateFn {
	line := t.readLine()
	if line == "" {
		if t.contEnd != nil {
			t.push(token.Token{Type: token.Error, Value: t.contVal, Start: t.contAt, Prefix: t.contPrefix})
			t.clearCont()
		}
		if t.line == "" {
			// no line was ever read, the stream still ends on line one
			t.lnum++
		}
		at := token.Position{Line: t.lnum, Col: 0}
		for range t.indents[1:] {
			t.emitEmpty(at, token.Dedent)
		}
		t.indents = t.indents[:1]
		t.emit(at, token.EndMarker, "")
		return stateEnd
	}
	t.lnum++
	t.line = line
	t.pos = 0
	if t.contEnd != nil {
		return stateContString
	}
	return stateScan
}

// stateEnd keeps reporting the end of the stream.
//
func stateEnd(t *Tokenizer) stateFn {
	t.emitEmpty(token.Position{Line: t.lnum, Col: 0}, token.EndMarker)
	return stateEnd
}

// stateContString tries to close a pending multi-line string at the start of
// a fresh line. If the closing pattern does not match, the whole line belongs
// to the string and scanning resumes on the next one.
//
func stateContString(t *Tokenizer) stateFn {
	if m := t.contEnd.FindStringIndex(t.line); m != nil {
		t.pos = m[1]
		t.push(token.Token{Type: token.String, Value: t.contVal + t.line[:t.pos], Start: t.contAt, Prefix: t.contPrefix})
		t.clearCont()
		return stateScan
	}
	t.contVal += t.line
	return stateNextLine
}

// stateScan matches one token at the scan cursor and classifies it.
//
func stateScan(t *Tokenizer) stateFn {
	if t.pos >= len(t.line) {
		return stateNextLine
	}
	m := pseudoRe.FindStringSubmatchIndex(t.line[t.pos:])
	if m == nil {
		t.scanError()
		return stateScan
	}
	// submatch 1 is the whitespace run, submatch 2 the token
	start := t.pos + m[4]
	tok := t.line[start : t.pos+m[5]]
	t.prefix += t.line[t.pos:start]
	t.pos += m[5]
	t.scan(tok, start)
	return stateScan
}

// scanError reports input no pattern matches. A quote character here means a
// literal that does not terminate on this line: the whole remainder of the
// line is one error span. Anything else is reported one rune at a time.
//
func (t *Tokenizer) scanError() {
	r, sz := utf8.DecodeRuneInString(t.line[t.pos:])
	at := token.Position{Line: t.lnum, Col: t.column(t.pos)}
	if r == '\'' || r == '"' {
		t.emit(at, token.Error, t.line[t.pos:])
		t.pos = len(t.line)
		return
	}
	t.emit(at, token.Error, t.line[t.pos:t.pos+sz])
	t.pos += sz
}

// scan classifies the token starting at byte offset start of the current
// line and queues the resulting tokens. The scan cursor has already been
// moved past tok; string tokens spanning further text move it again.
//
func (t *Tokenizer) scan(tok string, start int) {
	initial, _ := utf8.DecodeRuneInString(tok)
	at := token.Position{Line: t.lnum, Col: t.column(start)}

	// Indentation is evaluated at the first token of a logical line that is
	// neither a terminator nor a comment, and only outside brackets. The
	// flags are consumed even inside brackets.
	if t.checkIndent && !strings.ContainsRune("\r\n#", initial) {
		t.checkIndent = false
		t.newLine = false
		if t.parens == 0 {
			if at.Col > t.indents[len(t.indents)-1] {
				t.indents = append(t.indents, at.Col)
				t.emitEmpty(at, token.Indent)
			}
			for at.Col < t.indents[len(t.indents)-1] {
				t.indents = t.indents[:len(t.indents)-1]
				t.emitEmpty(at, token.Dedent)
			}
		}
	}

	switch {
	case (initial >= '0' && initial <= '9') ||
		(initial == '.' && tok != "." && tok != "..."):
		t.emit(at, token.Number, tok)
	case initial == '\r' || initial == '\n':
		if !t.newLine && t.parens == 0 {
			t.emit(at, token.NewLine, tok)
		} else {
			// blank line or terminator inside brackets
			t.prefix += tok
		}
		t.newLine = true
		t.checkIndent = true
	case initial == '#':
		// comments are not tokens, they travel in the next token's prefix
		t.prefix += tok
	case tripleQuoted[tok]:
		endRe := endPats[tok]
		if m := endRe.FindStringIndex(t.line[t.pos:]); m != nil {
			// the whole string sits on this line
			t.pos += m[1]
			t.emit(at, token.String, t.line[start:t.pos])
		} else {
			t.stashCont(endRe, start, at)
		}
	case isSingleQuoted(tok):
		if strings.HasSuffix(tok, "\n") {
			// the literal ends in a backslash continuation
			t.stashCont(contEndPat(tok), start, at)
		} else {
			t.emit(at, token.String, tok)
		}
	case initial == '_' || unicode.IsLetter(initial):
		if alwaysBreak[tok] {
			// Recovery heuristic: these keywords only ever start a
			// statement, so any deeper indentation levels and any open
			// brackets before them are leftovers of malformed input.
			t.parens = 0
			for len(t.indents) > 1 && t.indents[len(t.indents)-1] > at.Col {
				t.indents = t.indents[:len(t.indents)-1]
				t.emitEmpty(token.Position{Line: t.lnum, Col: 0}, token.Dedent)
			}
		}
		t.emit(at, token.Name, tok)
	case initial == '\\' && strings.HasSuffix(tok, "\n"):
		// explicit line continuation, the logical line goes on
		t.prefix += tok
	default:
		if len(tok) == 1 {
			switch tok[0] {
			case '(', '[', '{':
				t.parens++
			case ')', ']', '}':
				if t.parens > 0 {
					t.parens--
				}
			}
		}
		t.emit(at, token.Operator, tok)
	}
}

// stashCont records the opening of a string that continues past the current
// line. The rest of the line belongs to the string.
//
func (t *Tokenizer) stashCont(endRe *regexp.Regexp, start int, at token.Position) {
	t.contEnd = endRe
	t.contVal = t.line[start:]
	t.contAt = at
	t.contPrefix = t.prefix
	t.prefix = ""
	t.pos = len(t.line)
}

func (t *Tokenizer) clearCont() {
	t.contEnd = nil
	t.contVal = ""
	t.contPrefix = ""
}
