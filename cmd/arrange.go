package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/jsphweid/chordmelody/midi"
	"github.com/jsphweid/chordmelody/render"
	"github.com/jsphweid/chordmelody/score"
	"github.com/jsphweid/chordmelody/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	lyOut       string
	midiOut     string
	jsonOut     bool
	pdf         bool
	watch       bool
	notation    string
	orientation string
	maxScores   int
)

var scoreExts = []string{".yml", ".yaml", ".mid", ".midi"}

func init() {
	rootCmd.AddCommand(arrangeCmd)
	f := arrangeCmd.Flags()
	f.StringVarP(&lyOut, "out", "o", "", "LilyPond file to write (default <output dir>/<score>.ly)")
	f.StringVar(&midiOut, "midi", "", "also write the arrangement as a MIDI file")
	f.BoolVar(&jsonOut, "json", false, "print the arrangement as JSON instead of writing LilyPond")
	f.BoolVar(&pdf, "pdf", false, "typeset the LilyPond file with $LILYPOND_PATH")
	f.BoolVar(&watch, "watch", false, "arrange again whenever the score changes")
	f.StringVar(&notation, "notation", "", "tablature or staff")
	f.StringVar(&orientation, "orientation", "", "standard or landscape fretboards")
	f.IntVar(&maxScores, "max", 0, "when given a directory, arrange at most this many scores (0 is all)")
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange <score or dir>",
	Short: "Arranges a lead sheet or MIDI file",
	Long: `Arranges a YAML lead sheet or a Standard MIDI File into a chord melody
and writes it as LilyPond, MIDI or JSON. Given a directory, every score
under it is arranged into the output dir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return arrangeAll(cmd.Context(), args[0])
		}
		if !watch {
			return runArrange(cmd.Context(), args[0])
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchScore(ctx, args[0], 300*time.Millisecond)
	},
}

func runArrange(ctx context.Context, path string) error {
	s, err := score.Load(path)
	if err != nil {
		return err
	}
	arr, err := arrange.Arrange(s, cfg.Arrangement)
	if err != nil {
		return errors.Wrap(err, path)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(arr)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := lyOut
	if out == "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return errors.Wrap(err, "could not create output dir")
		}
		out = filepath.Join(cfg.OutputDir, name+".ly")
	}
	if err := writeFile(out, func(f *os.File) error {
		return render.LilyPond(f, arr, cfg.Render)
	}); err != nil {
		return err
	}
	fmt.Printf("writing %s\n", out)

	if midiOut != "" {
		if err := writeFile(midiOut, func(f *os.File) error {
			return midi.WriteArrangement(f, arr, cfg.Tempo)
		}); err != nil {
			return err
		}
		fmt.Printf("writing %s\n", midiOut)
	}

	if pdf {
		res, err := render.Typeset(ctx, cfg.LilyPondPath, out)
		if err != nil {
			return err
		}
		fmt.Printf("typeset %s\n", res)
	}

	rests := 0
	for _, e := range arr.Entries {
		if e.Rest {
			rests++
		}
	}
	logger.Info("arranged", logger.Fields{"score": path, "chords": len(arr.Entries), "rests": rests})
	return nil
}

// arrangeAll arranges every score under dir, carrying on past failures.
func arrangeAll(ctx context.Context, dir string) error {
	if lyOut != "" || midiOut != "" || watch {
		return errors.New("--out, --midi and --watch take a single score")
	}
	paths, err := util.GatherPaths(dir, maxScores, scoreExts...)
	if err != nil {
		return errors.Wrap(err, "could not read score dir")
	}
	if len(paths) == 0 {
		return errors.Errorf("no scores under %s", dir)
	}

	failed := 0
	for _, path := range paths {
		if err := runArrange(ctx, path); err != nil {
			failed++
			logger.Error("arrange failed", err, logger.Fields{"score": path})
		}
	}
	fmt.Printf("arranged %d of %d scores\n", len(paths)-failed, len(paths))
	if failed == len(paths) {
		return errors.New("every score failed")
	}
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create file")
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// watchScore polls the score's modification time and re-arranges once the
// file has been quiet for the debounce interval.
func watchScore(ctx context.Context, path string, quiet time.Duration) error {
	if err := runArrange(ctx, path); err != nil {
		logger.Error("arrange failed", err, logger.Fields{"score": path})
	}

	debounced := debounce.New(quiet)
	runs := make(chan struct{}, 1)
	var last time.Time
	if info, err := os.Stat(path); err == nil {
		last = info.ModTime()
	}

	ticker := time.NewTicker(quiet / 3)
	defer ticker.Stop()
	fmt.Printf("watching %s\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-runs:
			if err := runArrange(ctx, path); err != nil {
				logger.Error("arrange failed", err, logger.Fields{"score": path})
			}
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil || !info.ModTime().After(last) {
				continue
			}
			last = info.ModTime()
			debounced(func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		}
	}
}
