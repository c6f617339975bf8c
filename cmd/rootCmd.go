// Copyright 2020 Kubestr Developers

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

// 	http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blacklion/fio-plot/pkg/config"
	"github.com/blacklion/fio-plot/pkg/fio"
	"github.com/blacklion/fio-plot/pkg/loader"
	"github.com/blacklion/fio-plot/pkg/report"
	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	output     string
	outfile    string
	configFile string
	verbose    bool

	rw      string
	filter  []string
	format  string
	workers int

	rootCmd = &cobra.Command{
		Use:   "fio-plot",
		Short: "A tool to flatten fio benchmark results",
		Long: `fio-plot reads directories of fio JSON output and turns
		every benchmark run into a flat record, whichever fio version
		or job layout produced it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flattenCmd = &cobra.Command{
		Use:   "flatten [directory...]",
		Short: "Flattens fio JSON output into records",
		Long:  "Flattens every fio JSON file of the given directories and writes the records as csv, json or Go benchmark format",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			return Flatten(ctx, cfg, outfile)
		},
	}

	summaryCmd = &cobra.Command{
		Use:   "summary [directory...]",
		Short: "Summarizes fio JSON output per dataset",
		Long:  "Flattens the given directories and reports the mean IOPS, bandwidth and latency of each dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			return Summary(ctx, cfg, output, outfile)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Options(json)")
	rootCmd.PersistentFlags().StringVarP(&outfile, "outfile", "e", "", "The file where results will be written")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "The path to a YAML config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&rw, "rw", "r", "", "The fio rw value the benchmarks were run with. (Required unless set in the config)")
	rootCmd.PersistentFlags().StringArrayVarP(&filter, "filter", "f", nil, "The sub-mode(s) to extract from mixed workloads, e.g. read.")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "The number of datasets flattened at once.")

	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().StringVarP(&format, "format", "t", report.FormatCSV, fmt.Sprintf("The output format. Options%v", report.Formats))

	rootCmd.AddCommand(summaryCmd)
}

// Execute executes the main command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies the flags that were set and
// the positional directories on top of it.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("rw") {
		cfg.RW = rw
	}
	if flags.Changed("filter") {
		cfg.Filter = filter
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.Format = format
	}
	if len(args) > 0 {
		cfg.Inputs = args
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run loads and flattens every input of cfg.
func run(ctx context.Context, cfg *config.Config) ([]*fio.Dataset, error) {
	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Start()
	defer spin.Stop()
	timestart := time.Now()

	datasets, err := loader.Load(cfg.Inputs)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to load fio output")
	}
	f := &fio.Flattener{Workers: cfg.Workers}
	datasets, err = f.FlattenAll(ctx, cfg.Settings(), datasets)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"datasets": len(datasets), "elapsed": time.Since(timestart)}).Debug("Flattened datasets")
	return datasets, nil
}

// openOutput returns the writer results go to: outfile when set, stdout
// otherwise.
func openOutput(outfile string) (io.WriteCloser, error) {
	if len(outfile) == 0 {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outfile)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to create output file (%s)", outfile)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Flatten writes the flat records of every input of cfg in cfg.Format.
func Flatten(ctx context.Context, cfg *config.Config, outfile string) error {
	datasets, err := run(ctx, cfg)
	if err != nil {
		return err
	}
	w, err := openOutput(outfile)
	if err != nil {
		return err
	}
	if err := report.Write(w, cfg.Format, datasets); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// PrintAndJsonOutput Print JSON output to stdout and to file if arguments say so
// Returns whether we have generated output or JSON
func PrintAndJsonOutput(result []*report.Output, output string, outfile string) bool {
	if output == "json" {
		jsonRes, _ := json.MarshalIndent(result, "", "    ")
		if len(outfile) > 0 {
			err := os.WriteFile(outfile, jsonRes, 0666)
			if err != nil {
				fmt.Println("Error writing output:", err.Error())
				os.Exit(2)
			}
		} else {
			fmt.Println(string(jsonRes))
		}
		return true
	}
	return false
}

// Summary reports the per mode statistics of every input of cfg.
func Summary(ctx context.Context, cfg *config.Config, output, outfile string) error {
	testName := "fio-plot summary"
	datasets, err := run(ctx, cfg)
	if err != nil {
		result := report.MakeOutput(testName, report.StatusError, err.Error(), nil)
		if !PrintAndJsonOutput([]*report.Output{result}, output, outfile) {
			result.Print(os.Stdout)
		}
		return err
	}
	result := make([]*report.Output, 0, len(datasets))
	for _, ds := range datasets {
		o := report.DatasetOutput(ds)
		if verbose {
			for _, r := range ds.Data {
				o.AddStatus(report.StatusInfo, r.Print(), r)
			}
		}
		result = append(result, o)
	}
	if PrintAndJsonOutput(result, output, outfile) {
		return nil
	}
	for _, o := range result {
		o.Print(os.Stdout)
		fmt.Println()
	}
	return nil
}
