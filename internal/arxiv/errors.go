package arxiv

import (
	"errors"
	"fmt"
)

// ErrNotFound means the identifier does not resolve to a paper.
var ErrNotFound = errors.New("arxiv: paper not found")

// NetworkError wraps connection and timeout failures against arXiv.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("arxiv: network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamError wraps non-2xx statuses and malformed responses.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("arxiv: upstream error during %s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("arxiv: upstream error during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
