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

// Command pytok tokenizes the given files and dumps one token per line. With
// no arguments it starts an interactive prompt that tokenizes each submitted
// snippet, asking for more lines while a multi-line string is left open.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/db47h/pytok"
	"github.com/db47h/pytok/token"
)

const (
	appName     = "pytok"
	historyFile = ".pytok_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var (
	offset = flag.Int("offset", 0, "number of the line preceding the first input line")
	quiet  = flag.Bool("q", false, "print only error tokens")
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [options] [file ...]

Tokenizes the given files and dumps one token per line. With no arguments it
starts an interactive prompt. The exit status is 1 when any input produced
error tokens.

options:
`, appName)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		os.Exit(repl())
	}

	ret := 0
	for _, name := range flag.Args() {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			ret = 1
			continue
		}
		if dump(os.Stdout, name+":", string(src), *offset) > 0 {
			ret = 1
		}
	}
	os.Exit(ret)
}

// dump writes one line per token to w and returns the number of error tokens.
func dump(w io.Writer, prefix, src string, offset int) int {
	nerr := 0
	tk := pytok.NewSource(src, pytok.LineOffset(offset))
	for {
		tok := tk.Lex()
		line := fmt.Sprintf("%s%v: %v %q", prefix, tok.Start, tok.Type, tok.Value)
		if tok.Prefix != "" {
			line += fmt.Sprintf(" pfx %q", tok.Prefix)
		}
		switch {
		case tok.Type == token.Error:
			nerr++
			fmt.Fprintln(w, red(line))
		case !*quiet:
			fmt.Fprintln(w, line)
		}
		if tok.Type == token.EndMarker {
			return nerr
		}
	}
}

func repl() int {
	fmt.Printf("%s interactive tokenizer\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", appName)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	lnum := *offset
	for {
		src, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			switch strings.TrimSpace(src) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		dump(os.Stdout, "", src, lnum)
		lnum += strings.Count(src, "\n")
		ln.AppendHistory(strings.ReplaceAll(strings.TrimSuffix(src, "\n"), "\n", " "))
	}
}

// readSnippet reads one snippet of input, prompting for more lines while the
// text read so far ends inside a string that further lines may still close.
func readSnippet(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// liner.ErrPromptAborted and the like: drop the snippet
			return "", true
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if src := b.String(); !pending(src) {
			return src, true
		}
	}
}

// pending reports whether src ends inside an unterminated string that more
// input may still close: the tokenizer flushes such a string as the last
// error token of the stream.
func pending(src string) bool {
	tk := pytok.NewSource(src)
	var last token.Token
	for {
		tok := tk.Lex()
		if tok.Type == token.EndMarker {
			break
		}
		if tok.Type != token.Dedent {
			last = tok
		}
	}
	return last.Type == token.Error && continuable(last.Value)
}

// continuable reports whether an unterminated literal may span further lines:
// either it opens with a triple quote, or its last physical line ends in a
// backslash continuation.
func continuable(v string) bool {
	s := v
	for i := 0; i < 2 && s != ""; i++ {
		switch s[0] {
		case 'b', 'B', 'u', 'U', 'r', 'R':
			s = s[1:]
		}
	}
	if strings.HasPrefix(s, "'''") || strings.HasPrefix(s, `"""`) {
		return true
	}
	return strings.HasSuffix(v, "\\\n") || strings.HasSuffix(v, "\\\r\n")
}
