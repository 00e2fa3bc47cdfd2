package corpus

import "errors"

// Sentinel kinds for corpus errors.
var (
	ErrNegativeCount = errors.New("negative frequency count")
)
