package cleandisk

import (
	"bytes"
	"io/fs"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Duration is a time.Duration written as a Go duration string ("5s") in toml.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config defines the format of the optional toml configuration file.
//
// Sizes are strings with a unit ("20MB", "3GB"; units are powers of 1024) and
// intervals are Go durations ("5s").
type Config struct {
	// Size of each of the two random buffers. Must be a multiple of 4.
	StepSize datasize.ByteSize `toml:"step_size"`
	// Size a file is written up to before moving on to the next one.
	Ceiling datasize.ByteSize `toml:"file_size"`
	// Write every file more than once, each time with different data.
	DoubleOverwrite bool `toml:"double_overwrite"`
	// Number of passes per file when DoubleOverwrite is set.
	Passes int `toml:"passes"`
	// How long the refiller sleeps when it has nothing to do.
	IdleInterval Duration `toml:"idle_interval"`
	// How long the filler waits for a buffer before nudging the refiller
	// again.
	PollInterval Duration `toml:"poll_interval"`
	// Name of the directory created on the volume.
	Dir string `toml:"dir"`
}

func DefaultConfig() Config {
	return Config{
		StepSize:        20 * datasize.MB,
		Ceiling:         3 * datasize.GB,
		DoubleOverwrite: false,
		Passes:          2,
		IdleInterval:    Duration(5 * time.Second),
		PollInterval:    Duration(time.Second),
		Dir:             "cleandisk",
	}
}

// ParseConfig decodes raw on top of DefaultConfig. Unknown keys are an error.
func ParseConfig(raw []byte) (c Config, err error) {
	c = DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err = dec.Decode(&c)
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// ReadConfig reads the configuration file at path. An empty path gives the
// defaults.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Errorf("config file %s does not exist", path)
	} else if err != nil {
		return Config{}, errors.Wrapf(err, "config file %s could not be read", path)
	}
	c, err := ParseConfig(contents)
	if err != nil {
		return Config{}, errors.Errorf("could not parse config %s:\n%v", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.StepSize > datasize.ByteSize(maxInt) {
		return errors.Errorf("step_size %v is too large", c.StepSize)
	}
	if err := checkStepSize(int(c.StepSize)); err != nil {
		return errors.Wrap(err, "step_size")
	}
	if c.Ceiling == 0 || c.Ceiling > datasize.ByteSize(maxInt64) {
		return errors.Errorf("file_size %v is out of range", c.Ceiling)
	}
	if c.Passes < 1 {
		return errors.Errorf("passes must be at least 1 (got %d)", c.Passes)
	}
	if c.IdleInterval <= 0 {
		return errors.New("idle_interval must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.Dir == "" {
		return errors.New("dir must not be empty")
	}
	return nil
}

const (
	maxInt   = int(^uint(0) >> 1)
	maxInt64 = 1<<63 - 1
)
