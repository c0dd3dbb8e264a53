package core

// Scoring holds the point values a Tally applies.
type Scoring struct {
	Block int // per matched block
	Combo int // per block beyond three in one match
	Chain int // scaled by the triangular number of the chain counter
	Raise int // per row raised by hand
}

// DefaultScoring returns the standard point values.
func DefaultScoring() Scoring {
	return Scoring{Block: 10, Combo: 20, Chain: 50, Raise: 1}
}

// Tally accumulates one field's score and records.
type Tally struct {
	Score    int
	MaxCombo int
	MaxChain int
	Raised   int // rows raised by hand
	Sent     int // garbage cells sent to opponents
}

// Record folds one tick's outcome into the tally. raised is the number of
// rows the field scrolled while the raise button was held.
func (t *Tally) Record(s Scoring, out Outcome, raised int) {
	if out.Match {
		t.Score += s.Block * out.Combo
		if out.Combo > 3 {
			t.Score += s.Combo * (out.Combo - 3)
		}
		t.MaxCombo = max(t.MaxCombo, out.Combo)
	}
	if out.ChainFinished && out.Chain > 0 {
		k := out.Chain
		t.Score += s.Chain * k * (k + 1) / 2
		t.MaxChain = max(t.MaxChain, k)
	}
	if raised > 0 {
		t.Raised += raised
		t.Score += s.Raise * raised
	}
}

// Attack is a garbage block sent to an opponent.
type Attack struct {
	Cols int
	Rows int
}

// AttacksFor returns the garbage a field earns with one tick's outcome on a
// field cols wide. A combo of more than three sends one row one block
// narrower than the combo. A finished chain sends full-width rows, one per
// chaining match.
func AttacksFor(out Outcome, cols int) []Attack {
	var atks []Attack
	if out.Match && out.Combo > 3 {
		atks = append(atks, Attack{Cols: min(out.Combo-1, cols), Rows: 1})
	}
	if out.ChainFinished && out.Chain > 0 {
		atks = append(atks, Attack{Cols: cols, Rows: out.Chain})
	}
	return atks
}
