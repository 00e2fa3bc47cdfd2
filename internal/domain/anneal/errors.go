package anneal

import "errors"

// Sentinel kinds for annealer errors.
var (
	ErrNoStart    = errors.New("missing starting layout")
	ErrDegenerate = errors.New("nothing to search: empty alphabet or fewer than two usable slots")
)
