package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "gaddag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
dictionary:
  alphabet: abcdefghijklmnopqrstuvwxyz
  max_word_length: 8
  uppercase: false
  on_invalid: skip
server:
  addr: 127.0.0.1:9000
  shutdown_timeout: 3s
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "abcdefghijklmnopqrstuvwxyz", cfg.Dictionary.Alphabet)
	require.Equal(t, 8, cfg.Dictionary.MaxWordLength)
	require.False(t, cfg.Dictionary.Uppercase)
	require.Equal(t, "skip", cfg.Dictionary.OnInvalid)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 4, cfg.Dictionary.Workers, "unset values keep their default")
	require.Equal(t, 1000, cfg.Server.MaxResults)

	logger, err := cfg.Log.NewLogger(&bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"separator in alphabet": "dictionary:\n  alphabet: \"AB,\"\n",
		"policy":                "dictionary:\n  on_invalid: ignore\n",
		"length":                "dictionary:\n  max_word_length: 0\n",
		"log level":             "log:\n  level: loud\n",
		"log format":            "log:\n  format: xml\n",
		"syntax":                "dictionary: [\n",
		"uppercase lowercase":   "dictionary:\n  alphabet: abcdefghijklmnopqrstuvwxyz\n",
		"uppercase mixed":       "dictionary:\n  alphabet: ABCabc\n  uppercase: true\n",
	} {
		_, err := Load(writeConfig(t, content))
		require.Error(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	require.NoError(t, err)

	cfg, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestBuildOptions(t *testing.T) {
	opts, err := DefaultConfig().Dictionary.BuildOptions(nil)
	require.NoError(t, err)
	require.Len(t, opts, 4)
}

func TestUppercaseWithLowercaseAlphabet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dictionary.Alphabet = "abcdefghijklmnopqrstuvwxyz"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Uppercase")

	cfg.Dictionary.Uppercase = false
	require.NoError(t, cfg.Validate())

	cfg.Dictionary.Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ'"
	cfg.Dictionary.Uppercase = true
	require.NoError(t, cfg.Validate())
}
