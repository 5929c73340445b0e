// Package config resolves the allocator's runtime options from environment
// variables and an optional YAML file, the way a preloaded shared library
// has to: there is no command line to parse, only what the hosting process
// leaves in its environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

var validPolicyOptions = []string{"first-fit", "best-fit", "worst-fit", "next-fit"}
var validLogOptions = []string{"info", "warning", "warn", "error", "off", "none"}

// Options holds every knob the allocator reads at process start. Fields are
// populated first from SEGALLOC_CONFIG (a YAML file), then from individual
// SEGALLOC_* environment variables, then defaults — in that order of
// precedence: YAML overrides environment, environment overrides defaults.
type Options struct {
	Policy     string `yaml:"policy"`      // first-fit, best-fit, worst-fit, next-fit
	Log        string `yaml:"log"`         // info, warning, error, off
	PageSize   uint64 `yaml:"page_size"`   // bytes; 0 means "query the platform"
	ConfigPath string `yaml:"-"`           // the file this was loaded from, if any
}

// Default returns the option set used when nothing overrides it.
func Default() Options {
	return Options{
		Policy: "first-fit",
		Log:    "warning",
	}
}

// Load resolves Options from SEGALLOC_CONFIG, SEGALLOC_POLICY,
// SEGALLOC_LOG, and SEGALLOC_PAGE_SIZE, falling back to Default for
// anything left unset. It returns an error only when SEGALLOC_CONFIG names
// a file that cannot be read or parsed, or when the resolved options fail
// Verify.
func Load() (Options, error) {
	opts := Default()

	if path := os.Getenv("SEGALLOC_CONFIG"); path != "" {
		fileOpts, err := loadFile(path)
		if err != nil {
			return Options{}, err
		}
		opts = mergeDefaults(fileOpts, opts)
		opts.ConfigPath = path
	}

	if v := os.Getenv("SEGALLOC_POLICY"); v != "" {
		opts.Policy = v
	}
	if v := os.Getenv("SEGALLOC_LOG"); v != "" {
		opts.Log = v
	}
	if v := os.Getenv("SEGALLOC_PAGE_SIZE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Options{}, fmt.Errorf("invalid SEGALLOC_PAGE_SIZE %q: %w", v, err)
		}
		opts.PageSize = n
	}

	// Applying the file after the environment variables makes it win.
	if path := os.Getenv("SEGALLOC_CONFIG"); path != "" {
		fileOpts, err := loadFile(path)
		if err != nil {
			return Options{}, err
		}
		opts = mergeDefaults(fileOpts, opts)
		opts.ConfigPath = path
	}

	if err := opts.Verify(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func loadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return opts, nil
}

// mergeDefaults fills zero-valued fields of file with the corresponding
// field from fallback, so a YAML file only needs to name what it overrides.
func mergeDefaults(file, fallback Options) Options {
	if file.Policy == "" {
		file.Policy = fallback.Policy
	}
	if file.Log == "" {
		file.Log = fallback.Log
	}
	if file.PageSize == 0 {
		file.PageSize = fallback.PageSize
	}
	return file
}

// Verify validates the resolved options, raising an error if any are not
// recognised.
func (o *Options) Verify() error {
	if o.Policy != "" && !isInArray(validPolicyOptions, strings.ToLower(o.Policy)) {
		return fmt.Errorf("invalid policy option %q: valid values are %s", o.Policy, strings.Join(validPolicyOptions, ", "))
	}
	if o.Log != "" && !isInArray(validLogOptions, strings.ToLower(o.Log)) {
		return fmt.Errorf("invalid log option %q: valid values are %s", o.Log, strings.Join(validLogOptions, ", "))
	}
	return nil
}

func isInArray(arr []string, item string) bool {
	for _, v := range arr {
		if v == item {
			return true
		}
	}
	return false
}
