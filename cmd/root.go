package cmd

import (
	"github.com/jsphweid/chordmelody/config"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	configPath string
	minFret    int
	maxFret    int
	dropName   string
	majorStyle string
	minorStyle string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "chordmelody",
	Short: "Chord-melody arranger for guitar",
	Long: `Turns a melody with chord symbols into four-voice drop voicings
placed on the guitar neck, with the melody on top.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.IntVar(&minFret, "min-fret", 0, "lowest fret a voicing may use")
	f.IntVar(&maxFret, "max-fret", 0, "highest fret a voicing should use")
	f.StringVar(&dropName, "drop", "", "drop2, drop3 or drop24")
	f.StringVar(&majorStyle, "major", "", "how major triads grow: seventh, sixth, ninth, six-nine")
	f.StringVar(&minorStyle, "minor", "", "how minor triads grow: seventh, sixth, ninth, six-nine")
	f.BoolVar(&debugFlag, "debug", false, "print debug lines")
}

// loadConfig layers .env, the config file, the environment and the flags.
func loadConfig(cmd *cobra.Command) error {
	// a missing .env is fine
	_ = godotenv.Load()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("min-fret") {
		c.Arrangement.Window.MinFret = minFret
	}
	if flags.Changed("max-fret") {
		c.Arrangement.Window.MaxFret = maxFret
	}
	if flags.Changed("debug") {
		c.Debug = debugFlag
	}
	if err := c.ApplyNames(dropName, majorStyle, minorStyle, notation, orientation); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	logger.SetDebug(c.Debug)
	cfg = c
	return nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
