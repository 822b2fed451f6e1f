package graph

import "github.com/wyfcoding/treelca/algorithm/structures"

// EulerTourLCA 把 LCA 规约为欧拉序上按深度的区间最小值查询。
// 预处理 O(N log N)（由稀疏表主导），单次查询 O(1)。
type EulerTourLCA struct {
	tree  *Tree
	tour  []int // 长度 2N-1：进入节点时记录一次，每个子节点返回后再记录一次
	first []int // first[v] 为 v 在欧拉序中第一次出现的位置
	rmq   *structures.SparseTable
	stats opCounter
}

// NewEulerTour 生成欧拉序并在其深度序列上构建稀疏表。
func NewEulerTour(t *Tree) *EulerTourLCA {
	n := t.NodeCount()
	e := &EulerTourLCA{
		tree:  t,
		tour:  make([]int, 0, 2*n-1),
		first: make([]int, n),
	}

	// 栈帧记录节点及下一个待访问子节点的下标。
	type frame struct {
		v, next int
	}
	stack := []frame{{v: t.root}}
	e.first[t.root] = 0
	e.tour = append(e.tour, t.root)

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := t.children[top.v]
		if top.next == len(children) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				// 回到父节点，父节点再次出现在欧拉序中。
				e.tour = append(e.tour, stack[len(stack)-1].v)
			}
			continue
		}

		c := children[top.next]
		top.next++
		e.first[c] = len(e.tour)
		e.tour = append(e.tour, c)
		stack = append(stack, frame{v: c})
	}

	depths := make([]int, len(e.tour))
	for i, v := range e.tour {
		depths[i] = t.depth[v]
	}
	e.rmq = structures.NewSparseTable(depths)

	e.stats.addBuild(len(e.tour) + e.rmq.Cells())
	return e
}

// LCA 返回 first[u] 与 first[v] 之间深度最小的节点。
func (e *EulerTourLCA) LCA(u, v int) (int, error) {
	if err := e.tree.check(u, v); err != nil {
		return -1, err
	}

	l, r := e.first[u], e.first[v]
	if l > r {
		l, r = r, l
	}

	e.stats.addQuery(1)
	return e.tour[e.rmq.MinIndex(l, r)], nil
}

// Tour 返回欧拉序副本。
func (e *EulerTourLCA) Tour() []int {
	return append([]int(nil), e.tour...)
}

// FirstOccurrence 返回 v 在欧拉序中第一次出现的位置，越界时返回 -1。
func (e *EulerTourLCA) FirstOccurrence(v int) int {
	if !e.tree.Contains(v) {
		return -1
	}
	return e.first[v]
}

// Strategy 实现 StaticLCA。
func (e *EulerTourLCA) Strategy() Strategy {
	return StrategyEulerTour
}

// Stats 实现 StaticLCA。
func (e *EulerTourLCA) Stats() Stats {
	return e.stats.snapshot()
}
