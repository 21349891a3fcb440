package pidiv

// #region narrowing

// Narrowing tracks whether any PRNG method, and any frame-exact method, still
// plausibly explains the record across the hypotheses of one run. The zero
// value is the optimistic starting state; both flags can only be cleared.
type Narrowing struct {
	pidivExhausted bool
	frameExhausted bool
}

// PIDIVMatches reports whether a method-correct hypothesis may still exist.
func (n Narrowing) PIDIVMatches() bool { return !n.pidivExhausted }

// FrameMatches reports whether a frame-exact hypothesis may still exist.
func (n Narrowing) FrameMatches() bool { return !n.frameExhausted }

// ClearPIDIV returns n with PIDIVMatches false.
func (n Narrowing) ClearPIDIV() Narrowing {
	n.pidivExhausted = true
	return n
}

// ClearFrame returns n with FrameMatches false.
func (n Narrowing) ClearFrame() Narrowing {
	n.frameExhausted = true
	return n
}

// Merge keeps every flag either side has cleared.
func (n Narrowing) Merge(o Narrowing) Narrowing {
	return Narrowing{
		pidivExhausted: n.pidivExhausted || o.pidivExhausted,
		frameExhausted: n.frameExhausted || o.frameExhausted,
	}
}

// #endregion narrowing
