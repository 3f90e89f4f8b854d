package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type queueRecorder struct {
	delivered []int
}

func (r *queueRecorder) deliver(o Outcome) {
	r.delivered = append(r.delivered, o.Index)
}

func acceptTestOutcomes(q *outcomeSortingQueue, indexes ...int) {
	for _, i := range indexes {
		q.Accept(Outcome{Index: i})
	}
}

func expectDeferredOutcomes(t *testing.T, q *outcomeSortingQueue, indexes ...int) {
	var actual []int
	for _, o := range q.Deferred() {
		actual = append(actual, o.Index)
	}
	assert.Equal(t, indexes, actual, "did not see expected outcomes in deferred list")
}

func TestOutcomeSortingQueueWithOutcomesInOrder(t *testing.T) {
	var r queueRecorder
	q := newOutcomeSortingQueue(r.deliver)
	acceptTestOutcomes(q, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	expectDeferredOutcomes(t, q) // should be empty
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, r.delivered)
}

func TestOutcomeSortingQueueWithOutcomesOutOfOrder(t *testing.T) {
	var r queueRecorder
	q := newOutcomeSortingQueue(r.deliver)

	acceptTestOutcomes(q, 2)
	expectDeferredOutcomes(t, q, 2)

	acceptTestOutcomes(q, 1)
	expectDeferredOutcomes(t, q, 1, 2)

	acceptTestOutcomes(q, 5)
	expectDeferredOutcomes(t, q, 1, 2, 5)
	assert.Nil(t, r.delivered)

	acceptTestOutcomes(q, 0)
	assert.Equal(t, []int{0, 1, 2}, r.delivered)
	expectDeferredOutcomes(t, q, 5)

	acceptTestOutcomes(q, 4)
	expectDeferredOutcomes(t, q, 4, 5)

	acceptTestOutcomes(q, 3)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, r.delivered)
	expectDeferredOutcomes(t, q) // empty
}
