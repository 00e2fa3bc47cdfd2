package history

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNoRuns = errors.New("no runs recorded")
)
