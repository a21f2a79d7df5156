// Package diag renders fatal compile diagnostics in the
// "Compile Error @ line (L, C): <message>" template and terminates the
// process, with an ANSI caret-span print of the offending source line
// when stderr is a terminal.
package diag

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/cmlang/cmc/pkg/token"
)

// source holds the text a diagnostic's caret span is rendered against.
var source []byte

// SetSource records the current file's content for caret-span printing.
func SetSource(src []byte) { source = src }

// ColorEnabled lets the CLI's -no-color flag suppress ANSI output
// outright, on top of the TTY check below.
var ColorEnabled = true

func colorize() bool {
	return ColorEnabled && term.IsTerminal(int(os.Stderr.Fd()))
}

func render(tok token.Token, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	return fmt.Sprintf("Compile Error @ line (%d, %d): %s", tok.Line, tok.Column, msg)
}

func printSourceLine(w *os.File, tok token.Token) {
	if len(source) == 0 || tok.Line == 0 {
		return
	}
	lineNum := tok.Line
	lineStart := 0
	for i, b := range source {
		if lineNum <= 1 {
			break
		}
		if b == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}
	lineEnd := len(source)
	for i := lineStart; i < len(source); i++ {
		if source[i] == '\n' {
			lineEnd = i
			break
		}
	}
	fmt.Fprintf(w, "  %s\n", string(source[lineStart:lineEnd]))

	caretLen := tok.Len
	if caretLen < 1 {
		caretLen = 1
	}
	if colorize() {
		fmt.Fprintf(w, "  %s\033[32m^", strings.Repeat(" ", tok.Column-1))
		if caretLen > 1 {
			fmt.Fprintf(w, "%s", strings.Repeat("~", caretLen-1))
		}
		fmt.Fprintln(w, "\033[0m")
	} else {
		fmt.Fprintf(w, "  %s^", strings.Repeat(" ", tok.Column-1))
		if caretLen > 1 {
			fmt.Fprintf(w, "%s", strings.Repeat("~", caretLen-1))
		}
		fmt.Fprintln(w)
	}
}

// Error prints the diagnostic, the offending source line with a caret
// span, and terminates the process with a non-zero status. This is the
// reference (fatal) behaviour used by the CLI.
func Error(tok token.Token, format string, args ...any) {
	msg := render(tok, format, args...)
	if colorize() {
		fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	printSourceLine(os.Stderr, tok)
	os.Exit(1)
}

// Diagnostics is a non-fatal sink: a list of rendered messages collected
// instead of terminating the process.
type Diagnostics struct {
	Messages []string
}

// Failed reports whether any diagnostic has been collected.
func (d *Diagnostics) Failed() bool { return len(d.Messages) > 0 }

// abort is the sentinel panic value a collecting reporter raises to
// unwind out of the parser/emitter at the point of detection, mirroring
// the reference implementation's fatal-exit without calling os.Exit.
type abort struct{ d *Diagnostics }

// Collect returns a Diagnostics sink and a reporter function with the
// same signature as Error that appends to it and then unwinds the
// current call stack via panic, instead of exiting the process. Pair it
// with Try at the call site that should observe the failure sentinel.
// Used by package-level tests so a single bad program doesn't exit the
// test binary; the CLI's success-path behaviour is unchanged.
func Collect() (*Diagnostics, func(token.Token, string, ...any)) {
	d := &Diagnostics{}
	report := func(tok token.Token, format string, args ...any) {
		d.Messages = append(d.Messages, render(tok, format, args...))
		panic(abort{d})
	}
	return d, report
}

// Try runs f and, if f aborts via a Collect-produced reporter, recovers
// and returns the Diagnostics that were collected. Returns nil if f
// completed without aborting. Any other panic propagates.
func Try(f func()) (diags *Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(abort); ok {
				diags = a.d
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}
