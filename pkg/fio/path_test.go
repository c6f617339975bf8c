package fio

import (
	"encoding/json"

	"github.com/pkg/errors"
	. "gopkg.in/check.v1"
)

func (s *FIOTestSuite) TestPathString(c *C) {
	for _, tc := range []struct {
		path Path
		out  string
	}{
		{path: Path{Key("jobs"), Index(0), Key("job options"), Key("iodepth")}, out: `jobs[0]."job options".iodepth`},
		{path: Path{Key("fio version")}, out: `"fio version"`},
		{path: Path{Index(2), Key("a")}, out: `[2].a`},
		{path: Path{}, out: ``},
	} {
		c.Check(tc.path.String(), Equals, tc.out)
	}
}

func (s *FIOTestSuite) TestPathJoinDoesNotAlias(c *C) {
	base := make(Path, 1, 8)
	base[0] = Key("jobs")
	a := base.Join(Index(0))
	b := base.Join(Index(1))
	c.Assert(a.String(), Equals, "jobs[0]")
	c.Assert(b.String(), Equals, "jobs[1]")
	c.Assert(base, HasLen, 1)
}

func (s *FIOTestSuite) TestWalk(c *C) {
	doc := decode(c, parsableFioOutput)
	for _, tc := range []struct {
		path       Path
		value      interface{}
		errChecker Checker
		reason     string
		depth      int
	}{
		{
			path:       Path{Key("jobs"), Index(0), Key("read"), Key("bw")},
			value:      float64(3944),
			errChecker: IsNil,
		},
		{
			path:       Path{Key("jobs"), Index(1), Key("read")},
			errChecker: NotNil,
			reason:     "index out of range (len 1)",
			depth:      1,
		},
		{
			path:       Path{Key("jobs"), Index(-1)},
			errChecker: NotNil,
			reason:     "index out of range (len 1)",
			depth:      1,
		},
		{
			path:       Path{Key("jobs"), Key("read")},
			errChecker: NotNil,
			reason:     "[]interface {} is not an object",
			depth:      1,
		},
		{
			path:       Path{Key("global options"), Index(0)},
			errChecker: NotNil,
			reason:     "map[string]interface {} is not an array",
			depth:      1,
		},
		{
			path:       Path{Key("jobs"), Index(0), Key("steadystate"), Key("attained")},
			errChecker: NotNil,
			reason:     "missing key",
			depth:      2,
		},
	} {
		v, err := Walk(doc, tc.path)
		c.Check(err, tc.errChecker, Commentf("path %s", tc.path))
		if err != nil {
			var lookupErr *LookupError
			c.Assert(errors.As(err, &lookupErr), Equals, true)
			c.Check(lookupErr.Reason, Equals, tc.reason)
			c.Check(lookupErr.Depth, Equals, tc.depth)
			continue
		}
		c.Check(v, Equals, tc.value)
	}
}

func (s *FIOTestSuite) TestLookup(c *C) {
	v, err := Lookup(nil, Absent)
	c.Assert(err, IsNil)
	c.Assert(v.IsAbsent(), Equals, true)
	c.Assert(v, Equals, AbsentValue)

	doc := decode(c, `{"jobs": [{"steadystate": {"attained": 0}}]}`)
	v, err = Lookup(doc, At(Path{Key("jobs"), Index(0), Key("steadystate"), Key("attained")}))
	c.Assert(err, IsNil)
	c.Assert(v.IsAbsent(), Equals, false)
	c.Assert(v.Raw(), Equals, float64(0))

	v, err = Lookup(doc, At(Path{Key("jobs"), Index(0), Key("read")}))
	c.Assert(err, ErrorMatches, `lookup jobs\[0\].read: missing key at jobs\[0\].read`)
	c.Assert(v.IsAbsent(), Equals, true)
}

func (s *FIOTestSuite) TestValueCoercion(c *C) {
	for _, tc := range []struct {
		raw      interface{}
		intVal   int
		intErr   Checker
		floatVal float64
		floatErr Checker
		strVal   string
		strErr   Checker
	}{
		{raw: "64", intVal: 64, intErr: IsNil, floatVal: 64, floatErr: IsNil, strVal: "64", strErr: IsNil},
		{raw: float64(64), intVal: 64, intErr: IsNil, floatVal: 64, floatErr: IsNil, strVal: "64", strErr: IsNil},
		{raw: 0.5, intErr: NotNil, floatVal: 0.5, floatErr: IsNil, strVal: "0.5", strErr: IsNil},
		{raw: json.Number("8"), intVal: 8, intErr: IsNil, floatVal: 8, floatErr: IsNil, strVal: "8", strErr: IsNil},
		{raw: "4K", intErr: NotNil, floatErr: NotNil, strVal: "4K", strErr: IsNil},
		{raw: true, intErr: NotNil, floatErr: NotNil, strErr: NotNil},
		{raw: nil, intErr: NotNil, floatErr: NotNil, strErr: NotNil},
		{raw: float64(1e19), intErr: NotNil, floatVal: 1e19, floatErr: IsNil, strVal: "10000000000000000000", strErr: IsNil},
	} {
		v := ValueOf(tc.raw)
		comment := Commentf("raw %#v", tc.raw)
		i, err := v.Int(MetricIODepth)
		c.Check(err, tc.intErr, comment)
		c.Check(i, Equals, tc.intVal, comment)
		f, err := v.Float(MetricBW)
		c.Check(err, tc.floatErr, comment)
		c.Check(f, Equals, tc.floatVal, comment)
		str, err := v.Str(MetricBS)
		c.Check(err, tc.strErr, comment)
		c.Check(str, Equals, tc.strVal, comment)
	}
}

func (s *FIOTestSuite) TestValueJSON(c *C) {
	for _, tc := range []struct {
		value Value
		out   string
	}{
		{value: AbsentValue, out: "null"},
		{value: ValueOf(float64(0)), out: "0"},
		{value: ValueOf(""), out: `""`},
		{value: ValueOf(nil), out: "null"},
	} {
		b, err := json.Marshal(tc.value)
		c.Assert(err, IsNil)
		c.Check(string(b), Equals, tc.out)
	}
	c.Assert(ValueOf(nil).IsAbsent(), Equals, false)
	c.Assert(ValueOf(float64(0)).IsAbsent(), Equals, false)

	var v Value
	c.Assert(json.Unmarshal([]byte("null"), &v), IsNil)
	c.Assert(v.IsAbsent(), Equals, true)
	c.Assert(json.Unmarshal([]byte("12.5"), &v), IsNil)
	c.Assert(v.Raw(), Equals, 12.5)
	c.Assert(v.String(), Equals, "12.5")
	c.Assert(AbsentValue.String(), Equals, "")
}

func (s *FIOTestSuite) TestHistogram(c *C) {
	v := ValueOf(map[string]interface{}{"1000": 1.0, "2": 2.0, ">=2000": 3.0, "2000": 4.0, "750": 5.0, "10": "6"})
	h, err := v.Histogram(MetricLatencyMS)
	c.Assert(err, IsNil)
	c.Assert(h.Buckets(), DeepEquals, []string{"2", "10", "750", "1000", "2000", ">=2000"})
	c.Assert(h.String(), Equals, "2=2 10=6 750=5 1000=1 2000=4 >=2000=3")

	_, err = ValueOf(map[string]interface{}{"2": "x"}).Histogram(MetricLatencyMS)
	c.Assert(err, NotNil)
	_, err = ValueOf([]interface{}{}).Histogram(MetricLatencyMS)
	c.Assert(err, NotNil)
}
