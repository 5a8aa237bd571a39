package ai

import (
	"errors"
	"fmt"
)

// ErrNoClient means the bot was started without an OpenAI client. This is
// a configuration problem, not a transient failure, so it is checked
// before any network work happens.
var ErrNoClient = errors.New("ai: no OpenAI client configured")

type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("ai: failed to fetch content from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("ai: failed to generate summary: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
