package config

import (
	"io"
	"os"
	"strconv"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/constants"
	"github.com/jsphweid/chordmelody/render"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Store struct {
	// "memory" or "dynamodb"
	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`
	SentryDSN   string `yaml:"sentry_dsn"`
	Debug       bool   `yaml:"debug"`

	LilyPondPath string  `yaml:"lilypond_path"`
	OutputDir    string  `yaml:"output_dir"`
	Tempo        float64 `yaml:"tempo"`

	Arrangement arrange.Options `yaml:"arrangement"`
	Render      render.Options  `yaml:"render"`
	Store       Store           `yaml:"store"`
}

func Default() *Config {
	return &Config{
		Environment:  "development",
		Port:         constants.DefaultPort,
		LilyPondPath: constants.GetLilyPondPath(),
		OutputDir:    constants.GetOutputDir(),
		Tempo:        constants.DefaultTempo,
		Arrangement:  arrange.DefaultOptions(),
		Render:       render.DefaultOptions(),
		Store: Store{
			Backend:  "memory",
			Endpoint: constants.DefaultDynamoEndpoint,
			Region:   constants.DefaultRegion,
			Table:    constants.DefaultTable,
		},
	}
}

// Load starts from the defaults, applies the YAML file at path (if any) and
// then the environment.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "error opening config")
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "invalid config %s", path)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Port = getEnv("PORT", c.Port)
	c.SentryDSN = getEnv("SENTRY_DSN", c.SentryDSN)
	c.LilyPondPath = getEnv("LILYPOND_PATH", c.LilyPondPath)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.Store.Backend = getEnv("STORE", c.Store.Backend)
	c.Store.Endpoint = getEnv("DYNAMODB_ENDPOINT", c.Store.Endpoint)
	c.Store.Region = getEnv("DYNAMODB_REGION", c.Store.Region)
	c.Store.Table = getEnv("DYNAMODB_TABLE", c.Store.Table)

	var err error
	if c.Debug, err = getBool("DEBUG", c.Debug); err != nil {
		return err
	}
	if c.Render.IntervalNames, err = getBool("INTERVAL_NAMES", c.Render.IntervalNames); err != nil {
		return err
	}
	if c.Arrangement.Window.MinFret, err = getInt("MIN_FRET", c.Arrangement.Window.MinFret); err != nil {
		return err
	}
	if c.Arrangement.Window.MaxFret, err = getInt("MAX_FRET", c.Arrangement.Window.MaxFret); err != nil {
		return err
	}
	if v := os.Getenv("TEMPO"); v != "" {
		if c.Tempo, err = strconv.ParseFloat(v, 64); err != nil {
			return errors.Wrap(err, "invalid TEMPO")
		}
	}
	return c.ApplyNames(os.Getenv("DROP"), os.Getenv("MAJOR_STYLE"), os.Getenv("MINOR_STYLE"),
		os.Getenv("NOTATION"), os.Getenv("ORIENTATION"))
}

// ApplyNames overrides the named settings that are not empty. It is shared
// by the environment and the command line.
func (c *Config) ApplyNames(drop, major, minor, notation, orientation string) error {
	var err error
	if drop != "" {
		if c.Arrangement.Drop, err = voicing.ParseDrop(drop); err != nil {
			return err
		}
	}
	if major != "" {
		if c.Arrangement.Styles.Major, err = chord.ParseTriadStyle(major); err != nil {
			return err
		}
	}
	if minor != "" {
		if c.Arrangement.Styles.Minor, err = chord.ParseTriadStyle(minor); err != nil {
			return err
		}
	}
	if notation != "" {
		if c.Render.Notation, err = render.ParseNotation(notation); err != nil {
			return err
		}
	}
	if orientation != "" {
		if c.Render.Orientation, err = render.ParseOrientation(orientation); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Arrangement.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	if c.Tempo <= 0 {
		return errors.Errorf("invalid tempo: %g", c.Tempo)
	}
	switch c.Store.Backend {
	case "memory", "dynamodb":
	default:
		return errors.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "invalid %s", key)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "invalid %s", key)
	}
	return b, nil
}
