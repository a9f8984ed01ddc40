package input

// DetentSize is the number of raw encoder counts per physical click.
const DetentSize = 4

// Accumulator turns raw rotary counter positions into discrete detent
// steps. Sub-detent motion is carried in a signed residual so nothing is
// lost across polls.
type Accumulator struct {
	lastPos   int64
	residual  int64
	baselined bool
}

// Rebase snaps the accumulator to the current raw position and drops any
// carried residual. Called on startup and on every mode change so motion
// from one mode never leaks a step into the next.
func (a *Accumulator) Rebase(pos int64) {
	a.lastPos = pos
	a.residual = 0
	a.baselined = true
}

// Feed consumes the current raw position and returns the number of full
// detent steps accumulated since the last call (signed). The remainder
// stays in the accumulator.
func (a *Accumulator) Feed(pos int64) int {
	if !a.baselined {
		a.Rebase(pos)
		return 0
	}

	a.residual += pos - a.lastPos
	a.lastPos = pos

	steps := a.residual / DetentSize
	a.residual -= steps * DetentSize
	return int(steps)
}

// Residual reports the carried sub-detent count.
func (a *Accumulator) Residual() int {
	return int(a.residual)
}
