package retrieval

import "errors"

// ErrInvalidArgument is wrapped by validation failures that reject a query
// outright, as opposed to warnings that degrade it gracefully.
var ErrInvalidArgument = errors.New("invalid argument")
