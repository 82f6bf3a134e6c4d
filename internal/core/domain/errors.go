package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Only ErrStoreUnreadable and ErrPersist are fatal to a run; everything else
// is recovered locally.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an item with the same title is already held.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source kind or AI provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRunInProgress indicates a run is already executing in this process.
	ErrRunInProgress = errors.New("run in progress")

	// ErrLLMUnavailable indicates no model credential is configured.
	// The gate substitutes the unconfigured marker and no digest is produced.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Pipeline failures.

	// ErrSourceFetch indicates a source could not be fetched or parsed.
	// The source yields nothing for this run.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrDateParse indicates an item's publish timestamp could not be parsed.
	// The item keeps the run date instead.
	ErrDateParse = errors.New("date parse failed")

	// ErrModelCall indicates a model call timed out, returned a non-success
	// status, or produced a response that could not be used.
	ErrModelCall = errors.New("model call failed")

	// ErrStoreCorrupt indicates the persisted history could not be decoded.
	// The run proceeds with an empty history.
	ErrStoreCorrupt = errors.New("history snapshot corrupt")

	// ErrStoreUnreadable indicates the persisted history exists but could not
	// be read. The run stops without writing so the file is not replaced.
	ErrStoreUnreadable = errors.New("history snapshot unreadable")

	// ErrPersist indicates the history snapshot could not be written.
	// This is the one condition that fails a run.
	ErrPersist = errors.New("history persist failed")

	// ErrNothingToDigest indicates neither today's admissions nor the
	// fallback window held any item.
	ErrNothingToDigest = errors.New("nothing to digest")
)

// SourceError carries the tag of the source that failed.
type SourceError struct {
	Tag string
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Tag, e.Err)
}

// Unwrap allows errors.Is(err, ErrSourceFetch).
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceFetch, e.Err}
}

// NewSourceError wraps err as a fetch failure for the source with the given tag.
func NewSourceError(tag string, err error) *SourceError {
	return &SourceError{Tag: tag, Err: err}
}

// ModelCallKind classifies a model call failure.
type ModelCallKind string

// Model call failure kinds.
const (
	ModelCallTimeout   ModelCallKind = "timeout"
	ModelCallStatus    ModelCallKind = "status"
	ModelCallMalformed ModelCallKind = "malformed"
	ModelCallTransport ModelCallKind = "transport"
)

// ModelCallError describes a failed model call.
type ModelCallError struct {
	Kind ModelCallKind
	Err  error
}

// Error implements the error interface.
func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call (%s): %v", e.Kind, e.Err)
}

// Unwrap allows errors.Is(err, ErrModelCall).
func (e *ModelCallError) Unwrap() []error {
	return []error{ErrModelCall, e.Err}
}
