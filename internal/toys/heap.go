package toys

import "container/heap"

// weightHeap orders toys heaviest first. Ties keep no particular order.
type weightHeap []Toy

func (h weightHeap) Len() int           { return len(h) }
func (h weightHeap) Less(i, j int) bool { return h[i].Weight > h[j].Weight }
func (h weightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *weightHeap) Push(x any) { *h = append(*h, x.(Toy)) }

func (h *weightHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

func (h *weightHeap) add(t Toy) { heap.Push(h, t) }

func (h weightHeap) peek() (Toy, bool) {
	if len(h) == 0 {
		return Toy{}, false
	}
	return h[0], true
}

// drain returns the contents in pop order without disturbing h.
func (h weightHeap) drain() []Toy {
	cp := make(weightHeap, len(h))
	copy(cp, h)
	out := make([]Toy, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(Toy))
	}
	return out
}
