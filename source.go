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
	"bufio"
	"io"
	"strings"
)

// A ReadLineFunc returns successive physical lines of an input, terminator
// included. The last line may lack a terminator. Once the input is exhausted
// it returns the empty string. The tokenizer performs no I/O of its own and
// blocks only when this function does.
//
type ReadLineFunc func() string

// NewSource returns a Tokenizer for the given source text. A line terminator
// is appended when src does not end in one: downstream consumers rely on
// every logical line being closed.
//
func NewSource(src string, opts ...Option) *Tokenizer {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	return New(stringLines(src), opts...)
}

// stringLines returns a ReadLineFunc that slices successive lines off src.
//
func stringLines(src string) ReadLineFunc {
	return func() string {
		if len(src) == 0 {
			return ""
		}
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			i = len(src) - 1
		}
		line := src[:i+1]
		src = src[i+1:]
		return line
	}
}

// ReaderLines adapts an io.Reader into a ReadLineFunc. A read error silently
// ends the input: the line source contract has no error channel, and a
// truncated source still tokenizes to a well-formed stream.
//
func ReaderLines(r io.Reader) ReadLineFunc {
	br := bufio.NewReader(r)
	return func() string {
		line, _ := br.ReadString('\n')
		return line
	}
}
