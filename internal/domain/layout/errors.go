package layout

import "errors"

// Sentinel kinds for layout validation errors. These allow errors.Is
// from callers.
var (
	ErrCapacityExceeded = errors.New("alphabet exceeds slot capacity")
	ErrSlotConflict     = errors.New("slot assigned more than once")
	ErrSlotDisallowed   = errors.New("slot not usable under grid rules")
	ErrIncomplete       = errors.New("assignment does not cover the alphabet")
	ErrUnknownChar      = errors.New("character outside the active alphabet")
	ErrBadEncoding      = errors.New("malformed layout encoding")
	ErrDuplicateChar    = errors.New("duplicate character in alphabet")
	ErrReservedChar     = errors.New("reserved character in alphabet")
	ErrNilRNG           = errors.New("nil random source")
)
