// Package errs defines the error taxonomy shared by the field-to-geometry
// pipeline. Every failure is an *Error carrying a Kind and the offending
// parameter, so it survives serialisation across a worker boundary and can be
// matched with errors.Is against the package sentinels.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind uint8

const (
	// KindUnknown is never produced by the pipeline; it marks a zero Error.
	KindUnknown Kind = iota
	// KindInvalidConfiguration is a caller error: bad levels, interval, margins
	// or thinning base. Fix the input before retrying.
	KindInvalidConfiguration
	// KindEmptyGrid reports a grid with fewer than two samples along an axis.
	KindEmptyGrid
	// KindEmptyLevelSet reports label placement over no contour levels.
	KindEmptyLevelSet
	// KindInvalidGeometry reports malformed tessellation input.
	KindInvalidGeometry
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindInvalidConfiguration: "invalid configuration",
	KindEmptyGrid:            "empty grid",
	KindEmptyLevelSet:        "empty level set",
	KindInvalidGeometry:      "invalid geometry",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a pipeline failure. The msgpack tags keep the wire form stable.
type Error struct {
	Kind  Kind   `msgpack:"kind"`
	Param string `msgpack:"param,omitempty"`
	Msg   string `msgpack:"msg,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e.Param != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Param, e.Msg)
	case e.Param != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Param)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.String()
}

// Is reports whether target is an *Error of the same Kind. Param and Msg are
// ignored so sentinels match any concrete failure of their kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors, one per Kind.
var (
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrEmptyGrid            = &Error{Kind: KindEmptyGrid}
	ErrEmptyLevelSet        = &Error{Kind: KindEmptyLevelSet}
	ErrInvalidGeometry      = &Error{Kind: KindInvalidGeometry}
)

// InvalidConfiguration builds a KindInvalidConfiguration error for param.
func InvalidConfiguration(param, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidConfiguration, Param: param, Msg: fmt.Sprintf(format, args...)}
}

// EmptyGrid builds a KindEmptyGrid error.
func EmptyGrid(ni, nj int) *Error {
	return &Error{Kind: KindEmptyGrid, Param: "dims", Msg: fmt.Sprintf("need at least 2x2 samples, got %dx%d", ni, nj)}
}

// EmptyLevelSet builds a KindEmptyLevelSet error.
func EmptyLevelSet() *Error {
	return &Error{Kind: KindEmptyLevelSet, Param: "contours", Msg: "no contour levels supplied"}
}

// InvalidGeometry builds a KindInvalidGeometry error for param.
func InvalidGeometry(param, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidGeometry, Param: param, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
