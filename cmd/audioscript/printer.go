package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/kbukum/audioscript/errors"
	"github.com/kbukum/audioscript/render"
)

// printer writes views as they arrive. Text output prints a status line
// whenever it changes, redrawing it in place on a terminal, and the full
// transcript once the job settles. JSON output writes one document per view.
type printer struct {
	mu       sync.Mutex
	w        io.Writer
	json     bool
	redraw   bool
	lastLine string
	open     bool
}

func newPrinter(w io.Writer, jsonOutput bool) *printer {
	return &printer{w: w, json: jsonOutput, redraw: !jsonOutput && isTerminal(w)}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// View implements the session view callback.
func (p *printer) View(v render.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		_ = json.NewEncoder(p.w).Encode(v)
		return
	}
	if v.Settled {
		p.endLine()
		_ = render.Write(p.w, v)
		return
	}

	line := statusLine(v)
	if line == p.lastLine {
		return
	}
	p.lastLine = line
	if p.redraw {
		fmt.Fprintf(p.w, "\r\x1b[K%s", line)
		p.open = true
		return
	}
	fmt.Fprintln(p.w, line)
}

// Error reports err. JSON output uses the error document shape.
func (p *printer) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		_ = json.NewEncoder(p.w).Encode(errors.ToResponse(err))
		return
	}
	p.endLine()
	fmt.Fprintf(p.w, "error: %v\n", err)
}

// Info prints a plain message in text mode.
func (p *printer) Info(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		return
	}
	p.endLine()
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) endLine() {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
	p.lastLine = ""
}

func statusLine(v render.View) string {
	switch v.Mode {
	case render.ModeLoading:
		return "loading..."
	case render.ModeFetchError:
		return fmt.Sprintf("error: %s (retrying, last progress %d%%)", v.Message, v.Progress)
	default:
		return fmt.Sprintf("progress: %d%%", v.Progress)
	}
}
