package fio

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Workload types accepted in Settings.RW that select the mode directly.
const (
	RWRead      = "read"
	RWWrite     = "write"
	RWRandRW    = "randrw"
	RWMixed     = "rw"
	RWReadWrite = "readwrite"
)

// randPrefix is stripped from a random workload's rw option to get its mode.
const randPrefix = "rand"

// Settings selects the workload to extract from each document.
type Settings struct {
	// RW is the fio rw value the benchmarks were run with.
	RW string `json:"rw"`
	// Filter lists the sub-modes of interest for mixed workloads. Only the
	// first entry is used.
	Filter []string `json:"filter,omitempty"`
}

// IsMixed reports whether RW is a mixed read/write workload.
func (s *Settings) IsMixed() bool {
	return IsMixedRW(s.RW)
}

// IsMixedRW reports whether rw names a mixed read/write workload.
func IsMixedRW(rw string) bool {
	switch rw {
	case RWRandRW, RWMixed, RWReadWrite:
		return true
	}
	return false
}

var log = logrus.StandardLogger()

// SetLogger replaces the logger used by this package. The multi-job
// rejection terminates through l.Fatal, so l.ExitFunc controls how.
func SetLogger(l *logrus.Logger) {
	log = l
}

// ValidateJobCount terminates the process when doc holds more than one job.
// Multi-job documents are not supported.
func ValidateJobCount(doc Document) error {
	v, err := Walk(doc, Path{jobsKey})
	if err != nil {
		return err
	}
	jobs, ok := v.([]interface{})
	if !ok {
		return &LookupError{Path: Path{jobsKey}, Depth: 0, Reason: fmt.Sprintf("%T is not an array", v)}
	}
	if len(jobs) > 1 {
		log.WithField("jobs", len(jobs)).Fatalf("Unfortunately, fio-plot can't deal (yet) with JSON files containing multiple (%d) jobs", len(jobs))
	}
	return nil
}

// OptionScope is where a job option is recorded in a document.
type OptionScope int

const (
	// JobScoped options live under jobs[0]."job options".
	JobScoped OptionScope = iota
	// GlobalScoped options live under "global options".
	GlobalScoped
)

func (s OptionScope) String() string {
	switch s {
	case JobScoped:
		return "job"
	case GlobalScoped:
		return "global"
	}
	return fmt.Sprintf("OptionScope(%d)", int(s))
}

// Prefix returns the path of the options object for s.
func (s OptionScope) Prefix() Path {
	if s == JobScoped {
		return firstJob.Join(jobOptionsKey)
	}
	return Path{globalOptionsKey}
}

// ResolveOptionScope reports where option key is recorded in doc. Depending
// on the fio version and job file the same option is emitted per job or
// globally. The global fallback is not checked; if key is missing there too
// the lookup of the option fails later.
func ResolveOptionScope(doc Document, key string) OptionScope {
	if has(doc, JobScoped.Prefix().Join(Key(key))) {
		return JobScoped
	}
	return GlobalScoped
}

// UnexpectedRWError reports an rw option that does not name a random
// workload and so has no mode to derive.
type UnexpectedRWError struct {
	RW string
}

func (e *UnexpectedRWError) Error() string {
	return fmt.Sprintf("cannot derive mode from rw option %q: expected %q followed by a mode", e.RW, randPrefix)
}

// ResolveMode returns the mode of doc under s: the filtered sub-mode for
// mixed workloads, RW itself for read and write, and otherwise the
// document's rw option without its "rand" prefix.
func ResolveMode(s *Settings, doc Document) (string, error) {
	if err := ValidateJobCount(doc); err != nil {
		return "", err
	}
	switch {
	case s.IsMixed():
		if len(s.Filter) == 0 {
			return "", errors.Errorf("rw %q is a mixed workload but no filter was given", s.RW)
		}
		return s.Filter[0], nil
	case s.RW == RWRead || s.RW == RWWrite:
		return s.RW, nil
	}
	p := ResolveOptionScope(doc, "rw").Prefix().Join(Key("rw"))
	v, err := Lookup(doc, At(p))
	if err != nil {
		return "", err
	}
	rw, err := v.Str(MetricRW)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(rw, randPrefix) || len(rw) == len(randPrefix) {
		return "", &UnexpectedRWError{RW: rw}
	}
	return rw[len(randPrefix):], nil
}

// Metric names a value in the PathMapping.
type Metric string

// Metrics of the PathMapping.
const (
	MetricFioVersion     Metric = "fio_version"
	MetricIODepth        Metric = "iodepth"
	MetricNumJobs        Metric = "numjobs"
	MetricBS             Metric = "bs"
	MetricRW             Metric = "rw"
	MetricBW             Metric = "bw"
	MetricIOPS           Metric = "iops"
	MetricIOPSStdDev     Metric = "iops_stddev"
	MetricLatNS          Metric = "lat_ns"
	MetricLatStdDev      Metric = "lat_stddev"
	MetricLatencyMS      Metric = "latency_ms"
	MetricLatencyUS      Metric = "latency_us"
	MetricLatencyNS      Metric = "latency_ns"
	MetricCPUUsr         Metric = "cpu_usr"
	MetricCPUSys         Metric = "cpu_sys"
	MetricSSAttained     Metric = "ss_attained"
	MetricSSSettings     Metric = "ss_settings"
	MetricSSDataBWMean   Metric = "ss_data_bw_mean"
	MetricSSDataIOPSMean Metric = "ss_data_iops_mean"
)

// PathMapping locates every metric in one document.
type PathMapping map[Metric]Location

// ruleKind says how a metric's path is anchored.
type ruleKind int

const (
	// fixed paths are taken as is.
	fixedRule ruleKind = iota
	// option paths are anchored at the scope holding the option.
	optionRule
	// mode paths are anchored at jobs[0].<mode>.
	modeRule
	// steady state paths are Absent unless jobs[0] has steady state data.
	steadyStateRule
)

type metricRule struct {
	metric Metric
	kind   ruleKind
	path   Path
}

// metricTable describes where each metric lives.
var metricTable = []metricRule{
	{MetricFioVersion, fixedRule, Path{fioVersionKey}},
	{MetricIODepth, optionRule, Path{Key("iodepth")}},
	{MetricNumJobs, optionRule, Path{Key("numjobs")}},
	{MetricBS, optionRule, Path{Key("bs")}},
	{MetricRW, optionRule, Path{Key("rw")}},
	{MetricBW, modeRule, Path{Key("bw")}},
	{MetricIOPS, modeRule, Path{Key("iops")}},
	{MetricIOPSStdDev, modeRule, Path{Key("iops_stddev")}},
	{MetricLatNS, modeRule, Path{Key("lat_ns"), Key("mean")}},
	{MetricLatStdDev, modeRule, Path{Key("lat_ns"), Key("stddev")}},
	{MetricLatencyMS, fixedRule, firstJob.Join(Key("latency_ms"))},
	{MetricLatencyUS, fixedRule, firstJob.Join(Key("latency_us"))},
	{MetricLatencyNS, fixedRule, firstJob.Join(Key("latency_ns"))},
	{MetricCPUUsr, fixedRule, firstJob.Join(Key("usr_cpu"))},
	{MetricCPUSys, fixedRule, firstJob.Join(Key("sys_cpu"))},
	{MetricSSAttained, steadyStateRule, firstJob.Join(steadyStateKey, Key("attained"))},
	{MetricSSSettings, steadyStateRule, Path{globalOptionsKey, steadyStateKey}},
	{MetricSSDataBWMean, steadyStateRule, firstJob.Join(steadyStateKey, Key("data"), Key("bw_mean"))},
	{MetricSSDataIOPSMean, steadyStateRule, firstJob.Join(steadyStateKey, Key("data"), Key("iops_mean"))},
}

// Metrics returns every metric of the PathMapping in table order.
func Metrics() []Metric {
	out := make([]Metric, len(metricTable))
	for i, r := range metricTable {
		out[i] = r.metric
	}
	return out
}

// HasSteadyState reports whether the first job carries steady state data.
func HasSteadyState(doc Document) bool {
	return has(doc, firstJob.Join(steadyStateKey))
}

// ResolvePathMapping locates every metric of doc for mode.
func ResolvePathMapping(mode string, doc Document) (PathMapping, error) {
	if err := ValidateJobCount(doc); err != nil {
		return nil, err
	}
	steady := HasSteadyState(doc)
	m := make(PathMapping, len(metricTable))
	for _, r := range metricTable {
		switch r.kind {
		case fixedRule:
			m[r.metric] = At(r.path)
		case optionRule:
			key := string(r.path[0].(Key))
			m[r.metric] = At(ResolveOptionScope(doc, key).Prefix().Join(r.path...))
		case modeRule:
			m[r.metric] = At(firstJob.Join(Key(mode)).Join(r.path...))
		case steadyStateRule:
			if steady {
				m[r.metric] = At(r.path)
			} else {
				m[r.metric] = Absent
			}
		}
	}
	return m, nil
}

// Resolution is the mode and PathMapping of one document.
type Resolution struct {
	Mode    string
	Mapping PathMapping
}

// Resolve validates doc and resolves its mode and PathMapping under s.
func Resolve(s *Settings, doc Document) (*Resolution, error) {
	mode, err := ResolveMode(s, doc)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to resolve mode")
	}
	mapping, err := ResolvePathMapping(mode, doc)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to resolve metric paths")
	}
	log.WithFields(logrus.Fields{"mode": mode, "steadystate": HasSteadyState(doc)}).Debug("Resolved document")
	return &Resolution{Mode: mode, Mapping: mapping}, nil
}
