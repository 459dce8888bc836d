package core

import "errors"

// Error taxonomy from the error handling design: sentinel values every
// caller compares against with errors.Is, never string-matched. Wrapping
// with fmt.Errorf("...: %w", Err*) keeps the concrete message while
// still classifying the failure.
var (
	// ErrInvalidArgument covers a blank query, an out-of-range max_tokens,
	// or a rebuild requested without confirm.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound covers an unknown job ID or file path. Callers serving
	// get_rebuild_status/get_job treat this as an ordinary {status:
	// not_found} result, not an exceptional return.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers a rebuild requested while one is already in
	// flight.
	ErrConflict = errors.New("conflict")

	// ErrTransient covers a provider timeout or a single file's read
	// failure: localized, logged, and never fatal to the batch it
	// occurred in.
	ErrTransient = errors.New("transient")

	// ErrFatal covers store initialization failure or uncorrectable
	// corruption: surfaced to the caller, aborting the request.
	ErrFatal = errors.New("fatal")
)
