package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/blacklion/fio-plot/pkg/fio"
	"github.com/pkg/errors"
	"golang.org/x/perf/benchfmt"
)

// Output formats of flattened records.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatBench = "bench"
)

// Formats lists every supported output format.
var Formats = []string{FormatCSV, FormatJSON, FormatBench}

// IsFormat reports whether format is supported.
func IsFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Write writes the records of every dataset to w in format.
func Write(w io.Writer, format string, datasets []*fio.Dataset) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, datasets)
	case FormatJSON:
		return WriteJSON(w, datasets)
	case FormatBench:
		return WriteBench(w, datasets)
	}
	return fmt.Errorf("Unknown output format (%s)", format)
}

// WriteCSV writes one row per record, prefixed with the dataset name.
func WriteCSV(w io.Writer, datasets []*fio.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"dataset"}, fio.Columns...)); err != nil {
		return err
	}
	for _, ds := range datasets {
		for _, r := range ds.Data {
			if err := cw.Write(append([]string{ds.Name}, r.Row()...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "Unable to write csv")
}

type datasetJSON struct {
	Dataset string           `json:"dataset"`
	Data    []fio.FlatRecord `json:"data"`
}

// WriteJSON writes the datasets as an indented JSON array.
func WriteJSON(w io.Writer, datasets []*fio.Dataset) error {
	out := make([]datasetJSON, 0, len(datasets))
	for _, ds := range datasets {
		data := ds.Data
		if data == nil {
			data = []fio.FlatRecord{}
		}
		out = append(out, datasetJSON{Dataset: ds.Name, Data: data})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return errors.Wrap(enc.Encode(out), "Unable to write json")
}

// benchName builds the benchmark name of r; its sub-name configuration
// keys are what benchstat groups records by.
func benchName(r fio.FlatRecord) string {
	clean := func(s string) string {
		return strings.NewReplacer(" ", "_", "/", "_").Replace(s)
	}
	return fmt.Sprintf("FIO/type=%s/bs=%s/iodepth=%d/numjobs=%d", clean(r.Type), clean(r.BS), r.IODepth, r.NumJobs)
}

// BenchResult converts one record into a Go benchmark format result.
func BenchResult(dataset string, r fio.FlatRecord) *benchfmt.Result {
	res := &benchfmt.Result{
		Config: []benchfmt.Config{
			{Key: "dataset", Value: []byte(dataset), File: true},
			{Key: "fio-version", Value: []byte(r.FioVersion), File: true},
			{Key: "rw", Value: []byte(r.RW), File: true},
		},
		Name:  benchfmt.Name(benchName(r)),
		Iters: 1,
		Values: []benchfmt.Value{
			{Value: r.IOPS, Unit: "iops"},
			{Value: r.BW * 1024, Unit: "B/s"},
			{Value: r.Lat / 1e9, Unit: "sec/op"},
			{Value: r.CPUUsr, Unit: "usr-cpu-%"},
			{Value: r.CPUSys, Unit: "sys-cpu-%"},
		},
	}
	if mean, err := r.SSDataIOPSMean.Float(fio.MetricSSDataIOPSMean); err == nil {
		res.Values = append(res.Values, benchfmt.Value{Value: mean, Unit: "ss-iops"})
	}
	return res
}

// WriteBench writes the records in the Go benchmark format, so that the
// output of several runs can be compared with benchstat.
func WriteBench(w io.Writer, datasets []*fio.Dataset) error {
	bw := benchfmt.NewWriter(w)
	for _, ds := range datasets {
		for _, r := range ds.Data {
			if err := bw.Write(BenchResult(ds.Name, r)); err != nil {
				return errors.Wrap(err, "Unable to write benchmark results")
			}
		}
	}
	return nil
}
