package knapsack

import "container/heap"

type searchQueue interface {
	push(node)
	pop() node
	Len() int
}

func newSearchQueue(s Strategy) searchQueue {
	if s == BestFirst {
		return &boundHeap{}
	}
	return &fifoQueue{}
}

// fifoQueue is a slice-backed FIFO that reclaims its consumed prefix.
type fifoQueue struct {
	items []node
	head  int
}

func (q *fifoQueue) push(n node) {
	q.items = append(q.items, n)
}

func (q *fifoQueue) pop() node {
	n := q.items[q.head]
	q.items[q.head] = node{}
	q.head++
	if q.head >= 1024 && q.head*2 >= len(q.items) {
		live := copy(q.items, q.items[q.head:])
		clear(q.items[live:])
		q.items = q.items[:live]
		q.head = 0
	}
	return n
}

func (q *fifoQueue) Len() int {
	return len(q.items) - q.head
}

type seqNode struct {
	node
	seq int
}

// boundHeap pops the highest bound first; ties go to the earlier push.
type boundHeap struct {
	entries []seqNode
	seq     int
}

func (h *boundHeap) push(n node) {
	h.seq++
	heap.Push((*boundEntries)(h), seqNode{node: n, seq: h.seq})
}

func (h *boundHeap) pop() node {
	return heap.Pop((*boundEntries)(h)).(seqNode).node
}

func (h *boundHeap) Len() int {
	return len(h.entries)
}

// boundEntries adapts boundHeap to heap.Interface.
type boundEntries boundHeap

func (b *boundEntries) Len() int { return len(b.entries) }

func (b *boundEntries) Less(i, j int) bool {
	if b.entries[i].bound != b.entries[j].bound {
		return b.entries[i].bound > b.entries[j].bound
	}
	return b.entries[i].seq < b.entries[j].seq
}

func (b *boundEntries) Swap(i, j int) { b.entries[i], b.entries[j] = b.entries[j], b.entries[i] }

func (b *boundEntries) Push(x any) { b.entries = append(b.entries, x.(seqNode)) }

func (b *boundEntries) Pop() any {
	old := b.entries
	last := old[len(old)-1]
	old[len(old)-1] = seqNode{}
	b.entries = old[:len(old)-1]
	return last
}
