package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/blacklion/fio-plot/pkg/fio"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// JSONExt is the extension of fio JSON output files.
const JSONExt = ".json"

// jsonStart returns the offset of the first line that opens a JSON object,
// or -1. Notes printed by fio may contain braces themselves.
func jsonStart(data []byte) int {
	for offset := 0; offset < len(data); {
		line := data[offset:]
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i+1]
		}
		trimmed := bytes.TrimLeft(line, " \t\r")
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return offset + len(line) - len(trimmed)
		}
		offset += len(line)
	}
	return -1
}

// Decode reads one fio JSON document from r. fio may print notes ahead of
// the JSON body; every line before the one opening the report is skipped.
func Decode(r io.Reader) (fio.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	start := jsonStart(data)
	if start < 0 {
		return nil, errors.New("No JSON object found")
	}
	var doc fio.Document
	if err := json.Unmarshal(data[start:], &doc); err != nil {
		return nil, errors.Wrap(err, "Unable to parse fio output into json")
	}
	return doc, nil
}

// LoadFile reads and version checks one fio JSON output file.
func LoadFile(path string) (fio.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	doc, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "File (%s)", path)
	}
	switch err := fio.CheckVersion(doc); {
	case err == fio.ErrUnknownVersion:
		logrus.WithField("file", path).Warn(err.Error())
	case err != nil:
		return nil, errors.Wrapf(err, "File (%s)", path)
	}
	return doc, nil
}

// files lists the JSON files of input: the file itself, or the JSON files
// directly inside a directory in name order.
func files(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	matches, err := filepath.Glob(filepath.Join(input, "*"+JSONExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadDataset loads every JSON file of input into one dataset named after
// input. All unreadable files are reported together.
func LoadDataset(input string) (*fio.Dataset, error) {
	paths, err := files(input)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to list input (%s)", input)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("No %s files found in (%s)", JSONExt, input)
	}
	ds := &fio.Dataset{Name: filepath.Base(filepath.Clean(input))}
	var result *multierror.Error
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		ds.Rawdata = append(ds.Rawdata, doc)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"dataset": ds.Name, "files": len(paths)}).Debug("Loaded dataset")
	return ds, nil
}

// Load loads one dataset per input, in order.
func Load(inputs []string) ([]*fio.Dataset, error) {
	if len(inputs) == 0 {
		return nil, errors.New("No input given")
	}
	var result *multierror.Error
	datasets := make([]*fio.Dataset, 0, len(inputs))
	for _, in := range inputs {
		ds, err := LoadDataset(in)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		datasets = append(datasets, ds)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return datasets, nil
}
