package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type printer struct {
	out     io.Writer
	color   bool
	lineEnd string
}

func newPrinter(out io.Writer) *printer {
	p := &printer{out: out, lineEnd: "\n"}
	if f, ok := out.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd())
	}
	return p
}

func (p *printer) greenPrintln(format string, a ...interface{}) {
	p.colorPrintln("\033[92m", format, a...)
}

func (p *printer) warningPrintln(format string, a ...interface{}) {
	p.colorPrintln("\033[93m", format, a...)
}

func (p *printer) colorPrintln(code, format string, a ...interface{}) {
	if p.color {
		fmt.Fprint(p.out, code)
	}
	fmt.Fprintf(p.out, format, a...)
	if p.color {
		fmt.Fprint(p.out, "\033[0m")
	}
	fmt.Fprint(p.out, p.lineEnd)
}
