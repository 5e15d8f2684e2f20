package ragkit

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned by the agent when the query is empty or
// whitespace-only. The query is rejected before any external call and no
// history record is appended, so callers can simply re-prompt.
var ErrEmptyQuery = errors.New("query is empty")

// RetrievalError wraps a knowledge-base search failure.
//
// It propagates unmodified from the retrieval tool through the agent to the
// caller: retrieval failures are fatal to the current Process call (the
// pipeline does not substitute the direct-answer tool) but leave the session
// history untouched.
type RetrievalError struct {
	Query string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for query %q: %v", e.Query, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
