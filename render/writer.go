package render

import (
	"bufio"
	"fmt"
	"io"
)

// Write prints v as plain text.
func Write(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)
	switch v.Mode {
	case ModeLoading:
		fmt.Fprintln(bw, "loading...")
	case ModeFetchError, ModeJobError:
		fmt.Fprintf(bw, "error: %s\n", v.Message)
	case ModeProgress:
		fmt.Fprintf(bw, "progress: %d%%\n", v.Progress)
	case ModeSegments:
		if len(v.Rows) == 0 {
			fmt.Fprintln(bw, "no speech detected")
		}
	}
	for i, r := range v.Rows {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		WriteRow(bw, r)
	}
	return bw.Flush()
}

// WriteRow prints one segment: the header line, then the text.
func WriteRow(w io.Writer, r Row) {
	header := r.Range
	if r.Language != "" {
		header += " [" + r.Language + "]"
	}
	if r.Tone != "" {
		header += " - " + r.Tone
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, r.Text)
}
