package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/blacklion/fio-plot/pkg/fio"
	"github.com/dustin/go-humanize"
)

// Summary aggregates the records of one dataset that share a mode.
type Summary struct {
	Dataset    string  `json:"dataset"`
	Type       string  `json:"type"`
	Records    int     `json:"records"`
	IOPSMean   float64 `json:"iops_mean"`
	IOPSStdDev float64 `json:"iops_stddev"`
	// BWMean is in KiB/s, as reported by fio.
	BWMean  float64 `json:"bw_mean"`
	LatMean float64 `json:"lat_mean"`
	// SteadyState counts records from steady state runs; Unsettled those
	// of them that did not attain it.
	SteadyState int `json:"steadystate"`
	Unsettled   int `json:"unsettled"`
}

// Summarize returns one Summary per mode found in ds, ordered by mode.
func Summarize(ds *fio.Dataset) []Summary {
	groups := map[string][]fio.FlatRecord{}
	for _, r := range ds.Data {
		groups[r.Type] = append(groups[r.Type], r)
	}
	modes := make([]string, 0, len(groups))
	for m := range groups {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	out := make([]Summary, 0, len(modes))
	for _, m := range modes {
		records := groups[m]
		var iops, bw, lat stats.Sample
		s := Summary{Dataset: ds.Name, Type: m, Records: len(records)}
		for _, r := range records {
			iops.Xs = append(iops.Xs, r.IOPS)
			bw.Xs = append(bw.Xs, r.BW)
			lat.Xs = append(lat.Xs, r.Lat)
			if r.HasSteadyState() {
				s.SteadyState++
				if attained, err := r.SSAttained.Float(fio.MetricSSAttained); err != nil || attained == 0 {
					s.Unsettled++
				}
			}
		}
		s.IOPSMean = iops.Mean()
		s.BWMean = bw.Mean()
		s.LatMean = lat.Mean()
		if len(records) > 1 {
			s.IOPSStdDev = iops.StdDev()
		}
		out = append(out, s)
	}
	return out
}

// String renders s on one line.
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d records, IOPS=%.2f (stddev %.2f) BW=%s/s lat=%s",
		s.Type, s.Records, s.IOPSMean, s.IOPSStdDev,
		humanize.IBytes(uint64(s.BWMean*1024)), time.Duration(s.LatMean))
}

// DatasetOutput reports the summaries of a flattened dataset.
func DatasetOutput(ds *fio.Dataset) *Output {
	name := fmt.Sprintf("Dataset (%s)", ds.Name)
	summaries := Summarize(ds)
	if len(summaries) == 0 {
		return MakeOutput(name, StatusWarning, "No records", nil)
	}
	o := &Output{Name: name, Raw: summaries}
	for _, s := range summaries {
		o.AddStatus(StatusOK, s.String(), nil)
		if s.Unsettled > 0 {
			o.AddStatus(StatusWarning, fmt.Sprintf("%s: steady state not attained in %d of %d runs", s.Type, s.Unsettled, s.SteadyState), nil)
		}
	}
	return o
}
