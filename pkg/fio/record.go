package fio

import (
	"fmt"
	"strconv"
)

// FlatRecord is the flat, schema independent form of one fio document.
// Every record has the same fields whichever schema variant it was read
// from; steady state fields are absent when the run had no steady state
// detection.
type FlatRecord struct {
	IODepth        int       `json:"iodepth"`
	NumJobs        int       `json:"numjobs"`
	BS             string    `json:"bs"`
	RW             string    `json:"rw"`
	IOPS           float64   `json:"iops"`
	IOPSStdDev     float64   `json:"iops_stddev"`
	Lat            float64   `json:"lat"`
	LatStdDev      float64   `json:"lat_stddev"`
	LatencyMS      Histogram `json:"latency_ms"`
	LatencyUS      Histogram `json:"latency_us"`
	LatencyNS      Histogram `json:"latency_ns"`
	BW             float64   `json:"bw"`
	Type           string    `json:"type"`
	CPUSys         float64   `json:"cpu_sys"`
	CPUUsr         float64   `json:"cpu_usr"`
	SSAttained     Value     `json:"ss_attained"`
	SSDataBWMean   Value     `json:"ss_data_bw_mean"`
	SSDataIOPSMean Value     `json:"ss_data_iops_mean"`
	SSSettings     Value     `json:"ss_settings"`
	FioVersion     string    `json:"fio_version"`
}

// Columns are the FlatRecord field names in the order Row emits them.
var Columns = []string{
	"iodepth", "numjobs", "bs", "rw", "iops", "iops_stddev", "lat", "lat_stddev",
	"latency_ms", "latency_us", "latency_ns", "bw", "type", "cpu_sys", "cpu_usr",
	"ss_attained", "ss_data_bw_mean", "ss_data_iops_mean", "ss_settings", "fio_version",
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Row renders r as strings in Columns order.
func (r FlatRecord) Row() []string {
	return []string{
		strconv.Itoa(r.IODepth),
		strconv.Itoa(r.NumJobs),
		r.BS,
		r.RW,
		formatFloat(r.IOPS),
		formatFloat(r.IOPSStdDev),
		formatFloat(r.Lat),
		formatFloat(r.LatStdDev),
		r.LatencyMS.String(),
		r.LatencyUS.String(),
		r.LatencyNS.String(),
		formatFloat(r.BW),
		r.Type,
		formatFloat(r.CPUSys),
		formatFloat(r.CPUUsr),
		r.SSAttained.String(),
		r.SSDataBWMean.String(),
		r.SSDataIOPSMean.String(),
		r.SSSettings.String(),
		r.FioVersion,
	}
}

// HasSteadyState reports whether r was read from a steady state run.
func (r FlatRecord) HasSteadyState() bool {
	return !r.SSAttained.IsAbsent()
}

func (r FlatRecord) Print() string {
	var res string
	res += fmt.Sprintf("%s: rw=%s bs=%s iodepth=%d numjobs=%d (%s)\n", r.Type, r.RW, r.BS, r.IODepth, r.NumJobs, r.FioVersion)
	res += fmt.Sprintf("  IOPS=%f (stddev %f) BW(KiB/s)=%f\n", r.IOPS, r.IOPSStdDev, r.BW)
	res += fmt.Sprintf("  lat(ns): mean=%f stddev=%f\n", r.Lat, r.LatStdDev)
	res += fmt.Sprintf("  cpu: usr=%f%% sys=%f%%", r.CPUUsr, r.CPUSys)
	if r.HasSteadyState() {
		res += fmt.Sprintf("\n  steadystate: attained=%s settings=%s bw_mean=%s iops_mean=%s",
			r.SSAttained, r.SSSettings, r.SSDataBWMean, r.SSDataIOPSMean)
	}
	return res
}
