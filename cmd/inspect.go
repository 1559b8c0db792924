package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/score"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score>",
	Short: "Prints the chord timeline of a score",
	Long:  `Prints every chord of a score with the melody it carries, its voicing and its frets.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		arr, err := arrange.Arrange(s, cfg.Arrangement)
		if err != nil {
			return err
		}
		return inspect(os.Stdout, arr)
	},
}

func inspect(out io.Writer, arr *arrange.Arrangement) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "offset\tlength\tchord\tmelody\tvoicing\tfrets\troles")
	for _, e := range arr.Entries {
		melody := "-"
		if e.Melody != nil {
			melody = e.Melody.Name()
		}
		if e.Rest {
			fmt.Fprintf(w, "%g\t%g\t%s\t%s\trest\t\t%s\n", e.Offset, e.Duration, e.Symbol.Figure, melody, e.Reason)
			continue
		}
		frets := make([]string, 0, 4)
		for _, f := range e.Fingering() {
			frets = append(frets, fmt.Sprintf("%d:%d", f.String, f.Fret))
		}
		fmt.Fprintf(w, "%g\t%g\t%s\t%s\t%s\t%s\t%s\n", e.Offset, e.Duration, e.Symbol.Figure, melody,
			e.Voicing.Sorted(), strings.Join(frets, " "), strings.Join(e.Labels, " "))
	}
	return w.Flush()
}
