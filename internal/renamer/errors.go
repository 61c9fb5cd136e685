package renamer

import (
	"errors"
	"fmt"
)

var (
	ErrPathExists        = errors.New("path already exists")
	ErrInvalidCharacters = errors.New("invalid characters in name")
	ErrNotFound          = errors.New("file not found")
	ErrNothingToUndo     = errors.New("no changes to undo")
)

// Error describes one failed rename. Kind is one of the sentinel errors
// above, or nil when the OS error fits none of them.
type Error struct {
	Kind error
	Old  string
	New  string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("rename %s -> %s", e.Old, e.New)
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
