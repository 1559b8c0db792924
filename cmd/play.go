package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/jsphweid/chordmelody/midi"
	"github.com/jsphweid/chordmelody/score"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	portNum   int
	listPorts bool
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVar(&portNum, "port", 0, "MIDI out port number")
	playCmd.Flags().BoolVar(&listPorts, "list", false, "list MIDI out ports and exit")
}

var playCmd = &cobra.Command{
	Use:   "play [score]",
	Short: "Plays an arrangement on a MIDI out port",
	Long:  `Plays the melody on channel 1 and the voicings on channel 2 of a MIDI out port.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer gomidi.CloseDriver()
		if listPorts {
			for i, p := range gomidi.GetOutPorts() {
				fmt.Printf("%d: %s\n", i, p)
			}
			return nil
		}
		if len(args) != 1 {
			return errors.New("need a score to play")
		}

		s, err := score.Load(args[0])
		if err != nil {
			return err
		}
		arr, err := arrange.Arrange(s, cfg.Arrangement)
		if err != nil {
			return err
		}

		out, err := gomidi.OutPort(portNum)
		if err != nil {
			return errors.Wrapf(err, "can't find MIDI out port %d", portNum)
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return errors.Wrap(err, "can't open MIDI out port")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		logger.Info("playing", logger.Fields{"score": args[0], "port": out.String(), "tempo": cfg.Tempo})
		return play(ctx, midi.Cues(arr, cfg.Tempo), send)
	},
}

// play sends every cue at its time. Notes still sounding when playback is
// cut short are released.
func play(ctx context.Context, cues []midi.Cue, send func(gomidi.Message) error) error {
	sounding := map[[2]uint8]bool{}
	defer func() {
		for k := range sounding {
			if err := send(gomidi.NoteOff(k[0], k[1])); err != nil {
				logger.Warn("could not release note", logger.Fields{"channel": k[0], "key": k[1], "error": err.Error()})
			}
		}
	}()

	start := time.Now()
	for _, c := range cues {
		if wait := c.At - time.Since(start); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}
		if err := send(c.Msg); err != nil {
			return errors.Wrap(err, "error sending midi")
		}

		var ch, key, vel uint8
		switch {
		case c.Msg.GetNoteStart(&ch, &key, &vel):
			sounding[[2]uint8{ch, key}] = true
		case c.Msg.GetNoteEnd(&ch, &key):
			delete(sounding, [2]uint8{ch, key})
		}
	}
	return nil
}
