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
)

func group(choices ...string) string { return "(" + strings.Join(choices, "|") + ")" }

func maybe(choices ...string) string { return group(choices...) + "?" }

// The lexical grammar, assembled once at package load. Alternations rely on
// leftmost-first matching, which regexp shares with the usual backtracking
// engines as long as patterns are anchored.
//
// Names use unicode matching for letters and ascii matching for digits.
var (
	whitespace = `[ \f\t]*`
	comment    = `#[^\r\n]*`
	name       = `[\p{L}_0-9]+`

	hexNumber   = `0[xX][0-9a-fA-F]+`
	binNumber   = `0[bB][01]+`
	octNumber   = `0[oO][0-7]+`
	decNumber   = `(?:0+|[1-9][0-9]*)`
	intNumber   = group(hexNumber, binNumber, octNumber, decNumber)
	exponent    = `[eE][-+]?[0-9]+`
	pointFloat  = group(`[0-9]+\.[0-9]*`, `\.[0-9]+`) + maybe(exponent)
	expFloat    = `[0-9]+` + exponent
	floatNumber = group(pointFloat, expFloat)
	imagNumber  = group(`[0-9]+[jJ]`, floatNumber+`[jJ]`)
	number      = group(imagNumber, floatNumber, intNumber)

	// Tail end of ' string.
	single = `[^'\\]*(?:\\.[^'\\]*)*'`
	// Tail end of " string.
	double = `[^"\\]*(?:\\.[^"\\]*)*"`
	// Tail end of ''' string. Quote runs shorter than three are consumed
	// only when followed by a non-quote (RE2 has no lookahead, so the run
	// length is spelled out instead).
	single3 = `(?:[^'\\]|\\.|''?(?:[^'\\]|\\.))*'''`
	// Tail end of """ string.
	double3 = `(?:[^"\\]|\\.|""?(?:[^"\\]|\\.))*"""`

	// String prefixes: one or two of b, u, r, case insensitive, r last.
	strPrefix = `[bBuU]?[rR]?`
	triple    = group(strPrefix+`'''`, strPrefix+`"""`)

	// Longest operators first: with = before ==, == would be matched as two
	// instances of =.
	operator = group(`\*\*=?`, `>>=?`, `<<=?`, `!=`,
		`//=?`, `->`,
		`[+\-*/%&|^=<>]=?`,
		`~`)
	bracket = `[][(){}]`
	special = group(`\r?\n`, `\.\.\.`, `[:;.,@]`)
	funny   = group(operator, bracket, special)

	// First (or only) line of a ' or " string: ends either at the closing
	// quote or in a backslash continuation.
	contStr = group(strPrefix+`'[^\n'\\]*(?:\\.[^\n'\\]*)*`+group(`'`, `\\\r?\n`),
		strPrefix+`"[^\n"\\]*(?:\\.[^\n"\\]*)*`+group(`"`, `\\\r?\n`))

	pseudoExtras = group(`\\\r?\n`, comment, triple)
	pseudoToken  = `\A` + group(whitespace) + group(pseudoExtras, number, funny, contStr, name)
)

// Compiled patterns. pseudoRe submatch 1 is the whitespace run preceding the
// token, submatch 2 the token itself. The tail patterns are anchored and run
// against the line suffix at the scan position.
var (
	pseudoRe  = regexp.MustCompile(pseudoToken)
	singleRe  = regexp.MustCompile(`\A` + single)
	doubleRe  = regexp.MustCompile(`\A` + double)
	single3Re = regexp.MustCompile(`\A` + single3)
	double3Re = regexp.MustCompile(`\A` + double3)
)

// EncodingPattern matches a source encoding declaration in a comment, e.g.
// "# -*- coding: utf-8 -*-". The tokenizer never applies it. Callers that
// need to sniff the encoding of raw input run it over the first two lines
// before decoding.
//
var EncodingPattern = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// quotePrefixes lists every valid string literal prefix, the empty one
// included.
var quotePrefixes = []string{
	"", "b", "B", "u", "U", "r", "R",
	"br", "bR", "Br", "BR", "ur", "uR", "Ur", "UR",
}

var (
	// tripleQuoted holds every spelling of a triple quote opener.
	tripleQuoted = make(map[string]bool)
	// singleQuoted holds every spelling of a one-line string opener.
	singleQuoted = make(map[string]bool)
	// endPats maps quote spellings to the pattern for their tail end. Bare
	// prefix letters map to nil: not a complete token on their own.
	endPats = map[string]*regexp.Regexp{
		"'": singleRe, `"`: doubleRe,
		"'''": single3Re, `"""`: double3Re,
	}

	// alwaysBreak holds the keywords that force the indentation stack to
	// resynchronize wherever they appear. See scan.
	alwaysBreak = map[string]bool{
		"import": true, "from": true, "class": true, "def": true,
		"try": true, "except": true, "finally": true, "while": true,
		"return": true,
	}
)

func init() {
	for _, p := range quotePrefixes {
		tripleQuoted[p+"'''"] = true
		tripleQuoted[p+`"""`] = true
		singleQuoted[p+"'"] = true
		singleQuoted[p+`"`] = true
		endPats[p+"'''"] = single3Re
		endPats[p+`"""`] = double3Re
		if len(p) == 1 {
			endPats[p] = nil
		}
	}
}

// isSingleQuoted reports whether tok starts a one-line string, i.e. whether
// its quote spelling (quote char plus up to two prefix characters) is a known
// opener.
func isSingleQuoted(tok string) bool {
	if singleQuoted[tok[:1]] {
		return true
	}
	if len(tok) >= 2 && singleQuoted[tok[:2]] {
		return true
	}
	return len(tok) >= 3 && singleQuoted[tok[:3]]
}

// contEndPat resolves the closing pattern for a string opener from the quote
// character found among its first three characters. Prefix letters hit the
// nil entries in endPats and are skipped over.
func contEndPat(tok string) *regexp.Regexp {
	for i := 0; i < len(tok) && i < 3; i++ {
		if re := endPats[tok[i:i+1]]; re != nil {
			return re
		}
	}
	return nil
}
