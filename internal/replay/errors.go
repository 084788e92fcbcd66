package replay

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed       = errors.New("malformed replay")
	ErrTruncated       = errors.New("replay ends before the game footer")
	ErrBadIndex        = errors.New("match index does not point at the expected event")
	ErrUnexpectedEvent = errors.New("unexpected event")
	ErrBodyCount       = errors.New("footer body count does not match the replayed match")
	ErrUnencodable     = errors.New("delta cannot be written as a round")
)

// DecodeError reports why a replay could not be read. Event is the index
// of the offending event, or -1 when the failure is not tied to one.
type DecodeError struct {
	Event int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Event < 0 {
		return fmt.Sprintf("decode replay: %v", e.Err)
	}
	return fmt.Sprintf("decode replay: event %d: %v", e.Event, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeError(event int, err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Event: event, Err: err}
}
