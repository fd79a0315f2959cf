// Package errortypes contains errors that describe where in a template a
// compilation failed.
package errortypes

import (
	"errors"
	"fmt"
)

// ErrTemplatePos extends the error interface to add details on the template
// file position where the error occurred.
type ErrTemplatePos interface {
	error
	File() string
	Line() int
	Col() int
}

// NewErrTemplatePosf creates an error conforming to the ErrTemplatePos
// interface.
func NewErrTemplatePosf(file string, line, col int, format string, args ...interface{}) error {
	return &errTemplatePos{
		err:  fmt.Errorf(format, args...),
		file: file,
		line: line,
		col:  col,
	}
}

// WrapTemplatePos annotates err with a template position. The original error
// remains reachable through errors.Is and errors.As. An error that already
// carries a position is returned unchanged.
func WrapTemplatePos(file string, line, col int, err error) error {
	if err == nil || IsErrTemplatePos(err) {
		return err
	}
	return &errTemplatePos{err: err, file: file, line: line, col: col}
}

// IsErrTemplatePos identifies whether or not the provided error, or any error
// it wraps, is of the ErrTemplatePos type.
func IsErrTemplatePos(err error) bool {
	return ToErrTemplatePos(err) != nil
}

// ToErrTemplatePos converts the input error to an ErrTemplatePos if possible,
// or nil if not.
func ToErrTemplatePos(err error) ErrTemplatePos {
	if err == nil {
		return nil
	}
	var out ErrTemplatePos
	if errors.As(err, &out) {
		return out
	}
	return nil
}

var _ ErrTemplatePos = &errTemplatePos{}

type errTemplatePos struct {
	err  error
	file string
	line int
	col  int
}

func (e *errTemplatePos) Error() string {
	if e.line == 0 {
		return fmt.Sprintf("%s: %v", e.file, e.err)
	}
	return fmt.Sprintf("%s:%d:%d: %v", e.file, e.line, e.col, e.err)
}

func (e *errTemplatePos) Unwrap() error {
	return e.err
}

func (e *errTemplatePos) File() string {
	return e.file
}

func (e *errTemplatePos) Line() int {
	return e.line
}

func (e *errTemplatePos) Col() int {
	return e.col
}
