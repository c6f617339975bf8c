package fio

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownVersion is returned by CheckVersion when the fio version of a
// document cannot be recognized.
var ErrUnknownVersion = errors.New("Could not detect fio version")

// CheckVersion rejects documents written by fio 2.x, whose JSON layout
// differs from the 3.x series.
func CheckVersion(doc Document) error {
	v, err := Walk(doc, Path{fioVersionKey})
	if err != nil {
		return ErrUnknownVersion
	}
	version, _ := v.(string)
	switch {
	case strings.HasPrefix(version, "fio-3"):
		return nil
	case strings.HasPrefix(version, "fio-2"):
		return errors.Errorf("Your fio version (%s) is not compatible. Please use fio-3.x", version)
	}
	return ErrUnknownVersion
}
