package fio

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a metric read from a Document, or the absent value for metrics
// the document does not carry. Absent is distinct from a present zero.
type Value struct {
	raw     interface{}
	present bool
}

// AbsentValue is the value of every metric resolved to the Absent location.
var AbsentValue = Value{}

// ValueOf wraps a decoded JSON value.
func ValueOf(v interface{}) Value {
	return Value{raw: v, present: true}
}

// IsAbsent reports whether v is the absent value.
func (v Value) IsAbsent() bool {
	return !v.present
}

// Raw returns the decoded JSON value, nil when absent.
func (v Value) Raw() interface{} {
	return v.raw
}

// MarshalJSON encodes the absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes null as the absent value.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = AbsentValue
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// String renders v for tabular output; the absent value renders empty.
func (v Value) String() string {
	if !v.present {
		return ""
	}
	switch r := v.raw.(type) {
	case string:
		return r
	case float64:
		return strconv.FormatFloat(r, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(r)
	case nil:
		return ""
	}
	b, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Sprint(v.raw)
	}
	return string(b)
}

// TypeError reports a metric whose value has an unexpected JSON type.
type TypeError struct {
	Metric Metric
	Want   string
	Got    interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("metric %s: want %s, got %T (%v)", e.Metric, e.Want, e.Got, e.Got)
}

// Int coerces v to an int. fio emits job options as strings, so numeric
// strings are accepted as well as JSON numbers.
func (v Value) Int(m Metric) (int, error) {
	switch r := v.raw.(type) {
	case float64:
		// float64(math.MaxInt) rounds up, so the upper bound is exclusive.
		if r == math.Trunc(r) && r >= math.MinInt && r < -float64(math.MinInt) {
			return int(r), nil
		}
	case json.Number:
		if i, err := strconv.Atoi(r.String()); err == nil {
			return i, nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(r)); err == nil {
			return i, nil
		}
	}
	return 0, &TypeError{Metric: m, Want: "integer", Got: v.raw}
}

// Float coerces v to a float64.
func (v Value) Float(m Metric) (float64, error) {
	switch r := v.raw.(type) {
	case float64:
		return r, nil
	case json.Number:
		if f, err := r.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(r), 64); err == nil {
			return f, nil
		}
	}
	return 0, &TypeError{Metric: m, Want: "number", Got: v.raw}
}

// Str coerces v to a string.
func (v Value) Str(m Metric) (string, error) {
	switch r := v.raw.(type) {
	case string:
		return r, nil
	case float64, json.Number:
		return v.String(), nil
	}
	return "", &TypeError{Metric: m, Want: "string", Got: v.raw}
}

// Histogram coerces v to a latency bucket map such as latency_us.
func (v Value) Histogram(m Metric) (Histogram, error) {
	obj, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil, &TypeError{Metric: m, Want: "object", Got: v.raw}
	}
	h := make(Histogram, len(obj))
	for bucket, pct := range obj {
		f, err := ValueOf(pct).Float(m)
		if err != nil {
			return nil, err
		}
		h[bucket] = f
	}
	return h, nil
}

// Histogram maps a latency bucket (e.g. "250" or ">=2000") to the share of
// IOs in percent.
type Histogram map[string]float64

// Buckets returns the bucket names in ascending numeric order, with
// ">=" buckets last.
func (h Histogram) Buckets() []string {
	out := make([]string, 0, len(h))
	for b := range h {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return bucketBound(out[i]) < bucketBound(out[j])
	})
	return out
}

func bucketBound(b string) float64 {
	f, err := strconv.ParseFloat(strings.TrimPrefix(b, ">="), 64)
	if err != nil {
		return math.Inf(1)
	}
	if strings.HasPrefix(b, ">=") {
		// Sort after the plain bucket with the same bound.
		return math.Nextafter(f, math.Inf(1))
	}
	return f
}

// String renders h as "bucket=pct" pairs in bucket order.
func (h Histogram) String() string {
	parts := make([]string, 0, len(h))
	for _, b := range h.Buckets() {
		parts = append(parts, b+"="+strconv.FormatFloat(h[b], 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}
