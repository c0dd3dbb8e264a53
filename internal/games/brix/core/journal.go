package core

import "sort"

// DefaultCheckpointInterval is the number of ticks between journal
// checkpoints.
const DefaultCheckpointInterval = 30

// maxCheckpoints bounds how far back a late input can rewind.
const maxCheckpoints = 64

type checkpoint struct {
	time  int64
	round *Round
}

// Journal records timed inputs and periodic checkpoints of a round so that
// an input arriving late can be inserted into the past: the round rewinds to
// the closest earlier checkpoint and simulates forward again.
type Journal struct {
	interval    int64
	inputs      []GameInput
	checkpoints []checkpoint
	dirty       int64
	hasDirty    bool
}

// NewJournal starts a journal for a round that has not ticked yet.
func NewJournal(r *Round, interval int64) *Journal {
	if interval < 1 {
		interval = DefaultCheckpointInterval
	}
	j := &Journal{interval: interval}
	j.checkpoints = append(j.checkpoints, checkpoint{time: r.Time(), round: r.Clone()})
	return j
}

// Inputs returns every recorded input ordered by time.
func (j *Journal) Inputs() []GameInput {
	return append([]GameInput(nil), j.inputs...)
}

// Add records an input. Inputs at equal time keep their arrival order.
func (j *Journal) Add(in GameInput) {
	i := sort.Search(len(j.inputs), func(i int) bool {
		return j.inputs[i].Time > in.Time
	})
	j.inputs = append(j.inputs, GameInput{})
	copy(j.inputs[i+1:], j.inputs[i:])
	j.inputs[i] = in

	if !j.hasDirty || in.Time < j.dirty {
		j.dirty = in.Time
		j.hasDirty = true
	}
}

// Sync brings r to game time target, replaying recorded inputs on the way.
// If an input was recorded for a tick r already simulated, Sync restarts
// from a checkpoint and returns the rebuilt round instead of r. Listeners
// only hear about ticks past r's original time.
func (j *Journal) Sync(r *Round, target int64) *Round {
	seen := r.Time()
	if j.hasDirty && j.dirty < seen {
		cp := j.restorePoint(j.dirty)
		r = cp.round.Clone()
	}
	j.hasDirty = false

	r.SetMuted(r.Time() < seen)
	for r.Time() < target {
		for _, in := range j.inputsAt(r.Time()) {
			_ = r.Apply(in)
		}
		r.Update()
		if r.Time() >= seen {
			r.SetMuted(false)
		}
		if r.Time()%j.interval == 0 {
			j.saveCheckpoint(r)
		}
	}
	r.SetMuted(false)
	return r
}

// Replay builds a fresh copy of the round from its first checkpoint and runs
// it to target with every recorded input.
func (j *Journal) Replay(target int64) *Round {
	r := j.checkpoints[0].round.Clone()
	r.SetMuted(true)
	for r.Time() < target {
		for _, in := range j.inputsAt(r.Time()) {
			_ = r.Apply(in)
		}
		r.Update()
	}
	return r
}

func (j *Journal) inputsAt(t int64) []GameInput {
	lo := sort.Search(len(j.inputs), func(i int) bool { return j.inputs[i].Time >= t })
	hi := sort.Search(len(j.inputs), func(i int) bool { return j.inputs[i].Time > t })
	return j.inputs[lo:hi]
}

// restorePoint returns the newest checkpoint at or before t and forgets the
// ones after it.
func (j *Journal) restorePoint(t int64) checkpoint {
	i := sort.Search(len(j.checkpoints), func(i int) bool {
		return j.checkpoints[i].time > t
	})
	if i == 0 {
		i = 1
	}
	j.checkpoints = j.checkpoints[:i]
	return j.checkpoints[i-1]
}

func (j *Journal) saveCheckpoint(r *Round) {
	if n := len(j.checkpoints); n > 0 && j.checkpoints[n-1].time >= r.Time() {
		return
	}
	j.checkpoints = append(j.checkpoints, checkpoint{time: r.Time(), round: r.Clone()})
	if len(j.checkpoints) > maxCheckpoints {
		// keep the first checkpoint so Replay always has a start
		j.checkpoints = append(j.checkpoints[:1], j.checkpoints[2:]...)
	}
}
