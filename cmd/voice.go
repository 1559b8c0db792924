package cmd

import (
	"os"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/render"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(voiceCmd)
}

var voiceCmd = &cobra.Command{
	Use:   "voice <symbol> [melody]",
	Short: "Voices a single chord",
	Long:  `Voices a single chord under an optional melody note and draws where it sits on the neck.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sym, err := chord.Parse(args[0])
		if err != nil {
			return err
		}
		var melody *pitch.Pitch
		if len(args) == 2 {
			p, err := pitch.Parse(args[1])
			if err != nil {
				return err
			}
			melody = &p
		}
		entry, _, err := arrange.Step(sym, melody, cfg.Arrangement, nil)
		if err != nil {
			return err
		}
		return render.Diagram(os.Stdout, entry)
	},
}
