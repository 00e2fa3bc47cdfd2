package layout

// referenceSlots is a hand-placed starting layout for the default
// alphabet. The nine most frequent English letters sit on tap slots,
// one per key; the rest spread over the outer keys' swipe slots so the
// reference stays valid whether or not center-key swipes are allowed.
var referenceSlots = map[rune]Slot{
	// taps
	'a': SlotOf(0, Tap),
	'n': SlotOf(1, Tap),
	'i': SlotOf(2, Tap),
	'h': SlotOf(3, Tap),
	'o': SlotOf(4, Tap),
	'r': SlotOf(5, Tap),
	't': SlotOf(6, Tap),
	'e': SlotOf(7, Tap),
	's': SlotOf(8, Tap),

	// swipes
	'u': SlotOf(0, SwipeDown),
	'v': SlotOf(0, SwipeRight),
	'l': SlotOf(1, SwipeLeft),
	'd': SlotOf(1, SwipeDown),
	'm': SlotOf(1, SwipeRight),
	'x': SlotOf(2, SwipeLeft),
	'c': SlotOf(2, SwipeDown),
	'k': SlotOf(3, SwipeUp),
	'b': SlotOf(3, SwipeRight),
	'p': SlotOf(5, SwipeUp),
	'g': SlotOf(5, SwipeLeft),
	'y': SlotOf(6, SwipeUp),
	'w': SlotOf(6, SwipeRight),
	'q': SlotOf(7, SwipeUp),
	'j': SlotOf(7, SwipeLeft),
	'z': SlotOf(7, SwipeRight),
	'f': SlotOf(8, SwipeUp),
}

// Reference returns the built-in starting layout for DefaultAlphabet.
func Reference(opts ...Option) (*Layout, error) {
	return New([]rune(DefaultAlphabet), referenceSlots, opts...)
}
