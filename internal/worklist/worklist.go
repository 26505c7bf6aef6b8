package worklist

import "errors"

// Worklist is a FIFO queue that ignores pushes of elements that are already
// pending. Fixpoint solvers use it to schedule blocks for (re-)processing
// without enqueueing a block twice.
type Worklist[E comparable] struct {
	elements []E
	pending  map[E]bool
}

func (w *Worklist[E]) Push(e E) {
	if w.pending[e] {
		return
	}
	if w.pending == nil {
		w.pending = make(map[E]bool)
	}
	w.pending[e] = true
	w.elements = append(w.elements, e)
}

func (w *Worklist[E]) Empty() bool {
	return len(w.elements) == 0
}

var ErrEmpty = errors.New("Worklist is empty")

func (w *Worklist[E]) Pop() E {
	if w.Empty() {
		panic(ErrEmpty)
	}

	e := w.elements[0]
	w.elements = w.elements[1:]
	delete(w.pending, e)
	return e
}
