package framework

import (
	"sort"
	"sync"
)

// outcomeSortingQueue receives outcomes from parallel workers in any order and delivers
// them in selection order. An outcome whose predecessors have not all arrived yet is
// held back until they have.
type outcomeSortingQueue struct {
	deliver   func(Outcome)
	lastIndex int
	deferred  []Outcome
	lock      sync.Mutex
}

func newOutcomeSortingQueue(deliver func(Outcome)) *outcomeSortingQueue {
	return &outcomeSortingQueue{deliver: deliver, lastIndex: -1}
}

func (q *outcomeSortingQueue) Accept(o Outcome) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if o.Index > q.lastIndex+1 {
		q.deferred = append(q.deferred, o)
		sort.Slice(q.deferred, func(i, j int) bool { return q.deferred[i].Index < q.deferred[j].Index })
		return
	}
	q.lastIndex = o.Index
	q.deliver(o)
	for len(q.deferred) > 0 {
		next := q.deferred[0]
		if next.Index != q.lastIndex+1 {
			break
		}
		q.deferred = q.deferred[1:]
		q.lastIndex++
		q.deliver(next)
	}
}

func (q *outcomeSortingQueue) Deferred() []Outcome {
	q.lock.Lock()
	ret := append([]Outcome(nil), q.deferred...)
	q.lock.Unlock()
	return ret
}
