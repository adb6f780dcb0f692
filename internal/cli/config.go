package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dirsize/internal/dirstat"
)

// EnvPrefix prefixes the environment variables read as configuration.
const EnvPrefix = "DIRSIZE"

// configKeys are the flags that can also be set in the config file or the environment.
//
//nolint:gochecknoglobals // Config constant
var configKeys = []string{
	"output-file", "top", "hidden", "min-size", "format", "ext", "no-access-log",
	"workers", "sequential", "verbose", "debug", "sniff-mime",
}

// config layers flags over environment variables over the config file.
type config struct {
	v *viper.Viper
}

func newConfig() *config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &config{v: v}
}

// bind registers the configurable flags with viper.
func (c *config) bind(fs *pflag.FlagSet) error {
	for _, key := range configKeys {
		if err := c.v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return fmt.Errorf("binding flag %q: %w", key, err)
		}
	}

	return nil
}

// configCandidates returns the default config file locations, in lookup order.
func configCandidates() []string {
	var candidates []string

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "dirsize", "config.yaml"))
	}

	return append(candidates, ".dirsize.yaml")
}

// load reads the config file at path, or the first default location that exists.
// A missing default config file is not an error.
func (c *config) load(path string) error {
	if path == "" {
		for _, candidate := range configCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate

				break
			}
		}
	}

	if path == "" {
		return nil
	}

	c.v.SetConfigFile(path)

	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}

	return nil
}

// settings are the resolved options of a run.
type settings struct {
	options dirstat.Options
	debug   bool
}

// settings resolves the options for scanning path.
func (c *config) settings(path string) (settings, error) {
	minSize, err := parseSize(c.v.GetString("min-size"))
	if err != nil {
		return settings{}, fmt.Errorf("invalid min-size: %w", err)
	}

	categories, err := c.categories()
	if err != nil {
		return settings{}, err
	}

	return settings{
		options: dirstat.Options{
			Path:          path,
			IncludeHidden: c.v.GetBool("hidden"),
			MinSize:       minSize,
			TopN:          c.v.GetInt("top"),
			Format:        c.v.GetString("format"),
			Extensions:    splitList(c.v.GetStringSlice("ext")),
			ErrorLog:      c.v.GetString("no-access-log"),
			OutputFile:    c.v.GetString("output-file"),
			Workers:       c.v.GetInt("workers"),
			Sequential:    c.v.GetBool("sequential"),
			Verbose:       c.v.GetBool("verbose"),
			SniffMIME:     c.v.GetBool("sniff-mime"),
			Categories:    categories,
		},
		debug: c.v.GetBool("debug"),
	}, nil
}

// categories reads the custom categories, a map of names to extension lists.
func (c *config) categories() (map[string][]string, error) {
	raw := c.v.GetStringMap("categories")
	if len(raw) == 0 {
		return nil, nil //nolint:nilnil // No custom categories configured
	}

	categories := make(map[string][]string, len(raw))

	for name := range raw {
		exts := splitList(c.v.GetStringSlice("categories." + name))
		if len(exts) == 0 {
			return nil, fmt.Errorf("category %q: %w", name, errEmptyCategory)
		}

		categories[name] = exts
	}

	return categories, nil
}

var errEmptyCategory = errors.New("no extensions given")

// splitList splits comma-separated elements and drops empty ones.
// Lists read from the environment or given as a single string arrive unsplit.
func splitList(values []string) []string {
	var out []string

	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}

	return out
}

// parseSize parses a human-readable size. A plain number is taken as megabytes.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if mb, err := strconv.ParseFloat(s, 64); err == nil {
		if mb < 0 {
			return 0, fmt.Errorf("negative size %q", s)
		}

		return int64(mb * humanize.MByte), nil
	}

	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}

	return int64(size), nil //nolint:gosec // Size conversion from humanize is safe
}
