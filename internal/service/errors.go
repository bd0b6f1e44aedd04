package service

import (
	"errors"
	"fmt"
)

// maxRawExcerptLen bounds how much raw model output is carried inside an
// AIResponseParseError for diagnostics.
const maxRawExcerptLen = 1000

var (
	// ErrNoQuestionsExtracted means zero valid questions survived
	// materialization. Non-retryable: the source document needs changing.
	ErrNoQuestionsExtracted = errors.New("no valid questions could be extracted from the document")

	// ErrSectionNotFound means a reorder or edit named a section title that no
	// grouping run produced. Usually stale UI state.
	ErrSectionNotFound = errors.New("section not found")

	// ErrMaxAttemptsReached means the student has used every allowed attempt.
	ErrMaxAttemptsReached = errors.New("maximum number of attempts reached")
)

// AIResponseParseError reports malformed extraction output. It carries an
// excerpt of the raw text so the caller can show the operator what came back.
type AIResponseParseError struct {
	RawExcerpt string
	Err        error
}

func (e *AIResponseParseError) Error() string {
	return fmt.Sprintf("failed to parse AI extraction response: %v", e.Err)
}

func (e *AIResponseParseError) Unwrap() error { return e.Err }

func newAIResponseParseError(raw string, err error) *AIResponseParseError {
	if len(raw) > maxRawExcerptLen {
		raw = raw[:maxRawExcerptLen]
	}
	return &AIResponseParseError{RawExcerpt: raw, Err: err}
}

// ExtractionUpstreamError wraps a network or service failure while calling
// the generative-AI adapter. Retry policy belongs to the caller.
type ExtractionUpstreamError struct {
	Err error
}

func (e *ExtractionUpstreamError) Error() string {
	return fmt.Sprintf("AI extraction service call failed: %v", e.Err)
}

func (e *ExtractionUpstreamError) Unwrap() error { return e.Err }
