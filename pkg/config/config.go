package config

import (
	"fmt"
	"os"

	"github.com/blacklion/fio-plot/pkg/fio"
	"github.com/blacklion/fio-plot/pkg/report"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config holds everything needed for one flattening run.
type Config struct {
	// RW is the fio rw value of the benchmarks to extract.
	RW string `json:"rw"`
	// Filter selects the sub-mode of mixed workloads.
	Filter []string `json:"filter,omitempty"`
	// Inputs are benchmark directories, one dataset each.
	Inputs []string `json:"input,omitempty"`
	// Format is the output format of the flatten command.
	Format string `json:"format,omitempty"`
	// Workers bounds how many datasets are flattened at once.
	Workers int `json:"workers,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:  report.FormatCSV,
		Workers: 1,
	}
}

// Load reads a YAML (or JSON) configuration file on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "File reading error")
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Unable to parse config file (%s)", path)
	}
	return cfg, nil
}

// Validate checks the configuration before any document is read.
func (c *Config) Validate() error {
	if c.RW == "" {
		return fmt.Errorf("Require fields are missing. (rw)")
	}
	if fio.IsMixedRW(c.RW) && len(c.Filter) == 0 {
		return fmt.Errorf("If a mixed (read/write) workload (%s) is specified, please specify a filter", c.RW)
	}
	if !report.IsFormat(c.Format) {
		return fmt.Errorf("Unknown output format (%s). Options%v", c.Format, report.Formats)
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers must not be negative (%d)", c.Workers)
	}
	return nil
}

// Settings returns the flattening settings of c.
func (c *Config) Settings() *fio.Settings {
	return &fio.Settings{
		RW:     c.RW,
		Filter: append([]string(nil), c.Filter...),
	}
}
