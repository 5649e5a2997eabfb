package cpix

import "math"

// entropyEstimator keeps an online Shannon-entropy estimate of a byte
// stream with transactional semantics: setup begins a candidate run on
// top of the persistent counts, save snapshots the best candidate seen,
// and commit folds the snapshot back into the persistent state so later
// estimates observe realistic statistics.
type entropyEstimator struct {
	persistent [256]uint32
	active     [256]uint32
	saved      [256]uint32
}

// clear wipes all state.
func (e *entropyEstimator) clear() {
	e.persistent = [256]uint32{}
	e.active = [256]uint32{}
	e.saved = [256]uint32{}
}

// setup begins a transaction: the active counts restart from the
// persistent counts.
func (e *entropyEstimator) setup() {
	e.active = e.persistent
}

// push accounts one symbol into the active transaction.
func (e *entropyEstimator) push(sym uint8) {
	e.active[sym]++
}

// entropy returns the total cost in bits of the active counts,
// sum(-c * log2(c/total)).
func (e *entropyEstimator) entropy() float64 {
	var total uint64
	for _, c := range e.active {
		total += uint64(c)
	}
	if total == 0 {
		return 0
	}
	logTotal := math.Log2(float64(total))
	var bits float64
	for _, c := range e.active {
		if c > 0 {
			bits += float64(c) * (logTotal - math.Log2(float64(c)))
		}
	}
	return bits
}

// save snapshots the active transaction.
func (e *entropyEstimator) save() {
	e.saved = e.active
}

// commit makes the snapshot persistent.
func (e *entropyEstimator) commit() {
	e.persistent = e.saved
}

// rollback abandons the active transaction.
func (e *entropyEstimator) rollback() {
	e.active = e.persistent
}
