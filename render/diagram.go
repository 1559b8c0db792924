package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/chordmelody/arrange"
)

// high E first
var stringNames = [6]string{"e", "B", "G", "D", "A", "E"}

// Diagram draws a placed chord as six strings with the fret and role of each
// fretted voice. Unused strings are marked x.
func Diagram(w io.Writer, e arrange.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Symbol.Figure)
	if e.Melody != nil {
		fmt.Fprintf(&b, " / %s", e.Melody.Name())
	}
	b.WriteString("\n")

	if e.Rest || e.Placement == nil {
		fmt.Fprintf(&b, "  (rest: %s)\n", e.Reason)
		_, err := io.WriteString(w, b.String())
		return err
	}

	byString := map[int]arrange.Fingering{}
	for _, f := range e.Fingering() {
		byString[f.String] = f
	}
	for i, name := range stringNames {
		f, ok := byString[i+1]
		if !ok {
			fmt.Fprintf(&b, "%s |%s|\n", name, cell("x"))
			continue
		}
		fmt.Fprintf(&b, "%s |%s| %-4s %s\n", name, cell(fmt.Sprint(f.Fret)), f.Pitch.Name(), f.Label)
	}
	if e.Placement.Fallback {
		b.WriteString("  (open position)\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cell(s string) string {
	return fmt.Sprintf("--%2s--", s)
}
