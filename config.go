package flavour

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "flavour.toml"

// Config represents a flavour.toml project configuration.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Compiler CompilerConfig `toml:"compiler"`
	Messages MessagesConfig `toml:"messages"`
	Output   OutputConfig   `toml:"output"`

	// Dir is the directory containing the flavour.toml file (set at load time).
	Dir string `toml:"-"`
}

// SourceConfig configures template file locations.
type SourceConfig struct {
	Dirs []string `toml:"dirs"`
}

type CompilerConfig struct {
	ClassPrefix string `toml:"class-prefix"`
	Workers     int    `toml:"workers"`
	Verbose     bool   `toml:"verbose"`
}

// MessagesConfig selects the translations applied to template text. Text is
// left untranslated when Locale is empty.
type MessagesConfig struct {
	Dir    string `toml:"dir"`
	Locale string `toml:"locale"`
}

// OutputConfig names the files written by flavourc. Empty names are skipped.
type OutputConfig struct {
	Classes string `toml:"classes"`
	JS      string `toml:"js"`
	Listing string `toml:"listing"`
}

// LoadConfig parses a flavour.toml file from the given directory.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"templates"}
	}
	if c.Messages.Dir == "" {
		c.Messages.Dir = "messages"
	}
	return &c, nil
}

// FindConfig walks up from startDir to find a flavour.toml file, then loads
// and returns the configuration. Returns nil if no file is found.
func FindConfig(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Path resolves p relative to the configuration directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Bundle returns a bundle of the configured template directories with the
// configured compiler settings.
func (c *Config) Bundle(watch bool) *Bundle {
	var b = NewBundle().
		WatchFiles(watch).
		SetWorkers(c.Compiler.Workers).
		Verbose(c.Compiler.Verbose)
	if c.Compiler.ClassPrefix != "" {
		b.SetClassPrefix(c.Compiler.ClassPrefix)
	}
	if c.Messages.Locale != "" {
		b.AddMessagesDir(c.Path(c.Messages.Dir), c.Messages.Locale)
	}
	for _, dir := range c.Source.Dirs {
		b.AddTemplateDir(c.Path(dir))
	}
	return b
}
