package cleandisk

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)
	c := DefaultConfig()
	assert.Equal(uint64(20<<20), c.StepSize.Bytes())
	assert.Equal(uint64(3<<30), c.Ceiling.Bytes())
	assert.False(c.DoubleOverwrite)
	assert.Equal(2, c.Passes)
	assert.Equal(5*time.Second, c.IdleInterval.Duration())
	assert.Equal(time.Second, c.PollInterval.Duration())
	assert.Equal("cleandisk", c.Dir)
	assert.NoError(c.Validate())
}

func TestParseConfigEmpty(t *testing.T) {
	c, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)
	c, err := ParseConfig([]byte(`
step_size = "4MB"
file_size = "1GB"
double_overwrite = true
passes = 3
idle_interval = "250ms"
poll_interval = "10ms"
dir = "wipe"
`))
	require.NoError(t, err)
	assert.Equal(4*datasize.MB, c.StepSize)
	assert.Equal(datasize.GB, c.Ceiling)
	assert.True(c.DoubleOverwrite)
	assert.Equal(3, c.Passes)
	assert.Equal(250*time.Millisecond, c.IdleInterval.Duration())
	assert.Equal(10*time.Millisecond, c.PollInterval.Duration())
	assert.Equal("wipe", c.Dir)
	assert.NoError(c.Validate())
}

func TestParseConfigPartial(t *testing.T) {
	c, err := ParseConfig([]byte(`file_size = "512MB"`))
	require.NoError(t, err)
	assert.Equal(t, 512*datasize.MB, c.Ceiling)
	assert.Equal(t, 20*datasize.MB, c.StepSize, "untouched keys keep their default")
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown key", `block_size = "4MB"`},
		{"bad size", `step_size = "lots"`},
		{"bad duration", `idle_interval = "soon"`},
		{"wrong type", `passes = "two"`},
		{"not toml", `step_size = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero step", func(c *Config) { c.StepSize = 0 }},
		{"unaligned step", func(c *Config) { c.StepSize = 1022 }},
		{"zero ceiling", func(c *Config) { c.Ceiling = 0 }},
		{"no passes", func(c *Config) { c.Passes = 0 }},
		{"zero idle", func(c *Config) { c.IdleInterval = 0 }},
		{"negative poll", func(c *Config) { c.PollInterval = Duration(-time.Second) }},
		{"no dir", func(c *Config) { c.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestReadConfig(t *testing.T) {
	c, err := ReadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	dir := t.TempDir()
	_, err = ReadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "does not exist")

	path := filepath.Join(dir, "cleandisk.toml")
	require.NoError(t, os.WriteFile(path, []byte(`double_overwrite = true`), 0644))
	c, err = ReadConfig(path)
	require.NoError(t, err)
	assert.True(t, c.DoubleOverwrite)

	require.NoError(t, os.WriteFile(path, []byte(`double = true`), 0644))
	_, err = ReadConfig(path)
	assert.ErrorContains(t, err, "could not parse config")
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
	assert.Error(t, d.UnmarshalText([]byte("later")))
}
