package fio

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is one decoded fio JSON output document.
type Document = map[string]interface{}

// Step is a single element of a Path: either a map Key or a list Index.
type Step interface {
	fmt.Stringer
	isStep()
}

// Key selects a member of a JSON object.
type Key string

// Index selects an element of a JSON array.
type Index int

func (Key) isStep()   {}
func (Index) isStep() {}

func (k Key) String() string {
	if strings.ContainsAny(string(k), " .[]") {
		return strconv.Quote(string(k))
	}
	return string(k)
}

func (i Index) String() string {
	return "[" + strconv.Itoa(int(i)) + "]"
}

// Path locates a value inside a Document.
type Path []Step

// Join returns a new path with steps appended. p is never modified.
func (p Path) Join(steps ...Step) Path {
	out := make(Path, 0, len(p)+len(steps))
	out = append(out, p...)
	return append(out, steps...)
}

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if _, ok := s.(Key); ok && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

var (
	jobsKey          = Key("jobs")
	jobOptionsKey    = Key("job options")
	globalOptionsKey = Key("global options")
	steadyStateKey   = Key("steadystate")
	fioVersionKey    = Key("fio version")

	// firstJob is the root of every job scoped metric.
	firstJob = Path{jobsKey, Index(0)}
)

// Location is where a metric lives in a Document. The zero value is not
// valid; use At or Absent.
type Location struct {
	path   Path
	absent bool
}

// Absent marks a metric the document structurally does not carry.
var Absent = Location{absent: true}

// At returns the location of a concrete path.
func At(p Path) Location {
	return Location{path: p}
}

// IsAbsent reports whether l is the Absent location.
func (l Location) IsAbsent() bool {
	return l.absent
}

// Path returns the concrete path of l, nil for Absent.
func (l Location) Path() Path {
	return l.path
}

func (l Location) String() string {
	if l.absent {
		return "<absent>"
	}
	return l.path.String()
}

// LookupError reports a path step that could not be followed.
type LookupError struct {
	Path Path
	// Depth is the index in Path of the step that failed.
	Depth  int
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %s at %s", e.Path, e.Reason, e.Path[:e.Depth+1])
}

// Walk follows p from doc and returns the value found there.
func Walk(doc Document, p Path) (interface{}, error) {
	var cur interface{} = doc
	for depth, s := range p {
		switch step := s.(type) {
		case Key:
			m, ok := cur.(map[string]interface{})
			if !ok {
				return nil, &LookupError{Path: p, Depth: depth, Reason: fmt.Sprintf("%T is not an object", cur)}
			}
			v, ok := m[string(step)]
			if !ok {
				return nil, &LookupError{Path: p, Depth: depth, Reason: "missing key"}
			}
			cur = v
		case Index:
			l, ok := cur.([]interface{})
			if !ok {
				return nil, &LookupError{Path: p, Depth: depth, Reason: fmt.Sprintf("%T is not an array", cur)}
			}
			if int(step) < 0 || int(step) >= len(l) {
				return nil, &LookupError{Path: p, Depth: depth, Reason: fmt.Sprintf("index out of range (len %d)", len(l))}
			}
			cur = l[step]
		default:
			return nil, &LookupError{Path: p, Depth: depth, Reason: fmt.Sprintf("unknown step type %T", s)}
		}
	}
	return cur, nil
}

// Lookup resolves loc against doc. The Absent location yields the absent
// Value without touching doc.
func Lookup(doc Document, loc Location) (Value, error) {
	if loc.IsAbsent() {
		return AbsentValue, nil
	}
	v, err := Walk(doc, loc.path)
	if err != nil {
		return AbsentValue, err
	}
	return ValueOf(v), nil
}

// has reports whether p resolves in doc.
func has(doc Document, p Path) bool {
	_, err := Walk(doc, p)
	return err == nil
}
