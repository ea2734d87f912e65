package resultset

import (
	"errors"
	"fmt"
)

// ErrMalformedRelevanceTag is matched by every MalformedRelevanceTagError.
var ErrMalformedRelevanceTag = errors.New("malformed relevance tag")

type MalformedRelevanceTagError struct {
	Tag    string
	Reason string
	Err    error
}

func (e *MalformedRelevanceTagError) Error() string {
	msg := fmt.Sprintf("malformed relevance tag %q: %s", e.Tag, e.Reason)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRelevanceTagError) Is(target error) bool {
	return target == ErrMalformedRelevanceTag
}

func (e *MalformedRelevanceTagError) Unwrap() error {
	return e.Err
}
