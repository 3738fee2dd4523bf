package errors

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	ErrIO          = errors.ConstError("io failure")
	ErrNotFound    = errors.NotFound
	ErrTooLong     = errors.ConstError("line too long")
	ErrCorruption  = errors.ConstError("corrupt record log")
	ErrPathTooLong = errors.ConstError("path too long")
	ErrNotOpenable = errors.ConstError("directory not openable")
	ErrShortWrite  = errors.ConstError("short write")
)

// Op describes a failed operation on a path. It matches its Kind through errors.Is
// and unwraps to the underlying cause.
type Op struct {
	Kind errors.ConstError
	Op   string
	Path string
	Err  error
}

func (t *Op) Error() string {
	if t.Err == nil {
		return fmt.Sprintf("%s %s: %s", t.Op, t.Path, t.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", t.Op, t.Path, t.Kind, t.Err)
}

func (t *Op) Is(target error) bool {
	kind, ok := target.(errors.ConstError)
	return ok && kind == t.Kind
}

func (t *Op) Unwrap() error {
	return t.Err
}

func IO(op, path string, err error) error {
	return &Op{Kind: ErrIO, Op: op, Path: path, Err: err}
}

func NotOpenable(path string, err error) error {
	return &Op{Kind: ErrNotOpenable, Op: "opendir", Path: path, Err: err}
}

func PathTooLong(op, path string, limit int) error {
	return &Op{Kind: ErrPathTooLong, Op: op, Path: path, Err: fmt.Errorf("%d bytes, limit %d", len(path), limit)}
}
