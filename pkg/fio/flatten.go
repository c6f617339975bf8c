package fio

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Dataset is one group of fio documents, typically a benchmark directory.
type Dataset struct {
	Name    string
	Rawdata []Document
	// Data holds one FlatRecord per Rawdata entry, in the same order.
	Data []FlatRecord
}

// recordBuilder reads the metrics of one document into a FlatRecord,
// keeping the first error.
type recordBuilder struct {
	doc     Document
	mapping PathMapping
	err     error
}

func (b *recordBuilder) value(m Metric) Value {
	if b.err != nil {
		return AbsentValue
	}
	v, err := Lookup(b.doc, b.mapping[m])
	if err != nil {
		b.err = errors.Wrapf(err, "metric %s", m)
	}
	return v
}

func (b *recordBuilder) integer(m Metric) int {
	v := b.value(m)
	if b.err != nil {
		return 0
	}
	i, err := v.Int(m)
	b.err = err
	return i
}

func (b *recordBuilder) number(m Metric) float64 {
	v := b.value(m)
	if b.err != nil {
		return 0
	}
	f, err := v.Float(m)
	b.err = err
	return f
}

func (b *recordBuilder) text(m Metric) string {
	v := b.value(m)
	if b.err != nil {
		return ""
	}
	s, err := v.Str(m)
	b.err = err
	return s
}

func (b *recordBuilder) histogram(m Metric) Histogram {
	v := b.value(m)
	if b.err != nil {
		return nil
	}
	h, err := v.Histogram(m)
	b.err = err
	return h
}

// FlattenRecord reads one document into a FlatRecord. Either every field
// is filled or an error is returned.
func FlattenRecord(s *Settings, doc Document) (FlatRecord, error) {
	res, err := Resolve(s, doc)
	if err != nil {
		return FlatRecord{}, err
	}
	b := &recordBuilder{doc: doc, mapping: res.Mapping}
	r := FlatRecord{
		IODepth:        b.integer(MetricIODepth),
		NumJobs:        b.integer(MetricNumJobs),
		BS:             b.text(MetricBS),
		RW:             b.text(MetricRW),
		IOPS:           b.number(MetricIOPS),
		IOPSStdDev:     b.number(MetricIOPSStdDev),
		Lat:            b.number(MetricLatNS),
		LatStdDev:      b.number(MetricLatStdDev),
		LatencyMS:      b.histogram(MetricLatencyMS),
		LatencyUS:      b.histogram(MetricLatencyUS),
		LatencyNS:      b.histogram(MetricLatencyNS),
		BW:             b.number(MetricBW),
		Type:           res.Mode,
		CPUSys:         b.number(MetricCPUSys),
		CPUUsr:         b.number(MetricCPUUsr),
		SSAttained:     b.value(MetricSSAttained),
		SSDataBWMean:   b.value(MetricSSDataBWMean),
		SSDataIOPSMean: b.value(MetricSSDataIOPSMean),
		SSSettings:     b.value(MetricSSSettings),
		FioVersion:     b.text(MetricFioVersion),
	}
	if b.err != nil {
		return FlatRecord{}, b.err
	}
	return r, nil
}

// FlattenDataset replaces ds.Data with one FlatRecord per document in
// ds.Rawdata. On error ds.Data is left empty.
func FlattenDataset(s *Settings, ds *Dataset) error {
	ds.Data = []FlatRecord{}
	data := make([]FlatRecord, 0, len(ds.Rawdata))
	for i, doc := range ds.Rawdata {
		r, err := FlattenRecord(s, doc)
		if err != nil {
			return errors.Wrapf(err, "Dataset (%s) record %d", ds.Name, i)
		}
		data = append(data, r)
	}
	ds.Data = data
	log.WithFields(logrus.Fields{"dataset": ds.Name, "records": len(data)}).Debug("Flattened dataset")
	return nil
}

// FlattenAll flattens every dataset in order and returns datasets.
func FlattenAll(s *Settings, datasets []*Dataset) ([]*Dataset, error) {
	for _, ds := range datasets {
		if err := FlattenDataset(s, ds); err != nil {
			return nil, err
		}
	}
	return datasets, nil
}

// Flattener flattens datasets concurrently.
type Flattener struct {
	// Workers bounds the number of datasets flattened at once. Values
	// below 2 flatten sequentially.
	Workers int
}

// FlattenAll is FlattenAll with up to f.Workers datasets in flight. Records
// within a dataset keep their order. The first error stops scheduling of
// further datasets. ctx is checked before each dataset is started.
func (f *Flattener) FlattenAll(ctx context.Context, s *Settings, datasets []*Dataset) ([]*Dataset, error) {
	if f.Workers < 2 {
		for _, ds := range datasets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := FlattenDataset(s, ds); err != nil {
				return nil, err
			}
		}
		return datasets, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Workers)
	for _, ds := range datasets {
		ds := ds
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return FlattenDataset(s, ds)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return datasets, nil
}
