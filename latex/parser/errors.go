package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEndOfStream signals that the source has no more tokens. It ends a
	// collection normally and is never reported as a failure.
	ErrEndOfStream = errors.New("end of stream")

	ErrMalformedToken  = errors.New("malformed token")
	ErrUnclosedGroup   = errors.New("unclosed group")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrIndexMisuse     = errors.New("position index misuse")

	ErrNotDone   = errors.New("collector has not reached end of stream")
	ErrFinalized = errors.New("collector already finalized")

	// ErrStopReached is returned by Collector.ProcessOne when the stop
	// token condition matched. Like ErrEndOfStream it ends collection.
	ErrStopReached = errors.New("stop condition reached")
)

// OpenContext describes a group, environment or math region that was open
// when an error occurred.
type OpenContext struct {
	What string
	Pos  int
}

// ParseError carries the position and partial results of a failed parse.
// Err is one of the package sentinels, so errors.Is works on it.
type ParseError struct {
	Err  error
	Msg  string
	Pos  int
	Open []OpenContext

	// Nodes collected in the failing region before the error.
	Nodes []*Node

	// Placeholder, when set, may stand in for the malformed token; parsing
	// resumes at RecoveryPos.
	Placeholder *Token
	RecoveryPos int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	fmt.Fprintf(&b, " @ offset %d", e.Pos)
	for i := len(e.Open) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n\tin %s opened @ offset %d", e.Open[i].What, e.Open[i].Pos)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
