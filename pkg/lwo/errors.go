package lwo

import (
	"errors"
	"fmt"
)

// Parse errors. Every fatal condition wraps one of these and is returned
// inside a *ParseError.
var (
	ErrMalformedContainer  = errors.New("malformed LWO container")
	ErrTruncatedInput      = errors.New("truncated LWO data")
	ErrChunkOverrun        = errors.New("sub-chunk overruns its parent")
	ErrInternalConsistency = errors.New("inconsistent LWO data")
	ErrLengthMismatch      = errors.New("chunk payload not fully consumed")
)

// ParseError carries the tag and file offset of the chunk that failed.
type ParseError struct {
	Tag    Tag
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Tag == (Tag{}) {
		return fmt.Sprintf("lwo: offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("lwo: %s chunk at offset %d: %v", e.Tag, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// wrapChunkError attaches chunk context unless an inner chunk already did.
func wrapChunkError(tag Tag, offset int, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Tag: tag, Offset: offset, Err: err}
}

// inconsistent builds an ErrInternalConsistency error.
func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternalConsistency, fmt.Sprintf(format, args...))
}
