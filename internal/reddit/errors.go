package reddit

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every ParseError via errors.Is.
var ErrMalformed = errors.New("malformed payload")

// ParseError reports a payload whose structure does not match what the
// parser expects. A parse that returns a ParseError returns no data.
type ParseError struct {
	Op   string // parser entry point
	Path string // location inside the payload, e.g. "[1].data.children[3]"
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: malformed payload at %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s: malformed payload at %s: %v", e.Op, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}
