package report

import (
	"fmt"
	"io"
)

const (
	// ErrorColor formatted color red
	ErrorColor = "\033[1;31m%s\033[0m"
	// SuccessColor formatted color green
	SuccessColor = "\033[1;32m%s\033[0m"
	// YellowColor formatted color yellow
	YellowColor = "\033[1;33m%s\033[0m"
)

// Status is a generic structure to return a status
type Status struct {
	StatusCode    StatusCode
	StatusMessage string
	Raw           interface{} `json:",omitempty"`
}

// StatusCode type definition
type StatusCode string

const (
	// StatusOK is the success status code
	StatusOK = StatusCode("OK")
	// StatusWarning is the informational status code
	StatusWarning = StatusCode("Warning")
	// StatusError is the failure status code
	StatusError = StatusCode("Error")
	// StatusInfo is the Info status code
	StatusInfo = StatusCode("Info")
)

// Print writes a status message with a given prefix to w
func (s *Status) Print(w io.Writer, prefix string) {
	message := prefix + s.StatusMessage
	switch s.StatusCode {
	case StatusOK:
		fmt.Fprintf(w, "%s  -  "+SuccessColor+"\n", message, "OK")
	case StatusError:
		fmt.Fprintf(w, "%s  -  "+ErrorColor+"\n", message, "Error")
	case StatusWarning:
		fmt.Fprintf(w, YellowColor+"\n", message)
	default:
		fmt.Fprintln(w, message)
	}
}

// Output is the generic result of one dataset or command
type Output struct {
	Name   string
	Status []Status
	Raw    interface{} `json:",omitempty"`
}

// Print writes an Output as a string to w
func (o *Output) Print(w io.Writer) {
	fmt.Fprintln(w, o.Name+":")
	for _, status := range o.Status {
		status.Print(w, "  ")
	}
}

// AddStatus appends a status to o
func (o *Output) AddStatus(code StatusCode, mesg string, raw interface{}) {
	o.Status = append(o.Status, makeStatus(code, mesg, raw))
}

// HasErrors reports whether any status of o is an error
func (o *Output) HasErrors() bool {
	for _, s := range o.Status {
		if s.StatusCode == StatusError {
			return true
		}
	}
	return false
}

func MakeOutput(name string, code StatusCode, mesg string, raw interface{}) *Output {
	return &Output{
		Name:   name,
		Status: []Status{makeStatus(code, mesg, nil)},
		Raw:    raw,
	}
}

func makeStatus(code StatusCode, mesg string, raw interface{}) Status {
	return Status{
		StatusCode:    code,
		StatusMessage: mesg,
		Raw:           raw,
	}
}
