package engine

import (
	"container/heap"

	"github.com/dkoosis/tmx/internal/matrix"
)

// profileQueue is a min-heap over profiles in scheduling order: profiles
// with lesser axis values surface first, so dominance decisions see the
// lax configurations before the strict ones.
type profileQueue []matrix.Profile

func (q profileQueue) Len() int           { return len(q) }
func (q profileQueue) Less(i, j int) bool { return q[i].AxisCompare(q[j]) < 0 }
func (q profileQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *profileQueue) Push(x any)        { *q = append(*q, x.(matrix.Profile)) }
func (q *profileQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}

func newQueue(profiles []matrix.Profile) *profileQueue {
	q := make(profileQueue, len(profiles))
	copy(q, profiles)
	heap.Init(&q)
	return &q
}

func (q *profileQueue) pop() matrix.Profile {
	return heap.Pop(q).(matrix.Profile)
}
