package analysis

import (
	"container/heap"
	"math"

	"hex/game"
)

const (
	DefaultPathBase = 10000
	impassable      = math.MaxInt32
)

// DistanceMap is the per-cell traversal cost for one player: 0 for own
// stones, 1 for empty cells and impassable for opponent stones.
func DistanceMap(b *game.Board, p game.Player) []int {
	costs := make([]int, b.Size()*b.Size())
	for idx := range costs {
		switch b.Cell(idx) {
		case p:
			costs[idx] = 0
		case game.None:
			costs[idx] = 1
		default:
			costs[idx] = impassable
		}
	}
	return costs
}

// VirtualDistance is the minimum number of empty cells p still has to fill to
// join its two edges. ok is false when the opponent has cut every path.
func VirtualDistance(b *game.Board, p game.Player) (dist int, ok bool) {
	size := b.Size()
	topo := b.Topology()
	costs := DistanceMap(b, p)
	best := make([]int, len(costs))
	for i := range best {
		best[i] = impassable
	}

	pq := &frontier{}
	for i := 0; i < size; i++ {
		start := i * size
		if p == game.PlayerB {
			start = i
		}
		if costs[start] == impassable {
			continue
		}
		best[start] = costs[start]
		heap.Push(pq, entry{cell: start, dist: costs[start]})
	}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(entry)
		if current.dist > best[current.cell] {
			continue // Stale entry
		}
		if b.OnEndEdge(p, current.cell) {
			return current.dist, true
		}
		for _, n := range topo.Adjacent[current.cell] {
			if costs[n] == impassable {
				continue
			}
			if next := current.dist + costs[n]; next < best[n] {
				best[n] = next
				heap.Push(pq, entry{cell: n, dist: next})
			}
		}
	}
	return 0, false
}

// PathScore maps the virtual distance to base-dist, so shorter is better.
// An unreachable connection scores 0.
func PathScore(b *game.Board, p game.Player, base int) int {
	dist, ok := VirtualDistance(b, p)
	if !ok {
		return 0
	}
	return base - dist
}

type entry struct {
	cell int
	dist int
}

type frontier []entry

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].dist < f[j].dist }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(entry)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
