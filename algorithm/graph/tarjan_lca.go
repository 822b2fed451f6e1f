// 此文件实现了 Tarjan 离线最近公共祖先算法。
//
// 算法原理.
// 一次深度优先遍历配合并查集：每个子树处理完毕后并入父节点所在集合，并把集合的 ancestor 标记为父节点；
// 节点完成时，若查询的另一端已完成，则答案为 ancestor[find(另一端)]。
//
// 复杂度分析.
// - 时间复杂度: O((N + Q) α(N))。
// - 空间复杂度: O(N + Q)。
package graph

import "github.com/wyfcoding/treelca/algorithm/structures"

// pendingQuery 挂在某一端节点上的待答查询。
type pendingQuery struct {
	partner int
	index   int
}

// OfflineLCA 封装了 Tarjan 离线 LCA 的状态。
// 所有查询必须在遍历开始前给出；Solve 会重置状态，可重复调用。
type OfflineLCA struct {
	tree     *Tree
	uf       *structures.DisjointSet
	ancestor []int            // ancestor[find(v)] 为该集合对应的原树节点
	visited  []bool           // 节点是否已完成
	pending  [][]pendingQuery // 双向存储的查询邻接表
	stats    opCounter
}

// NewOfflineLCA 初始化 Tarjan 离线 LCA 执行器。
func NewOfflineLCA(t *Tree) *OfflineLCA {
	n := t.NodeCount()
	return &OfflineLCA{
		tree:     t,
		uf:       structures.NewDisjointSet(n),
		ancestor: make([]int, n),
		visited:  make([]bool, n),
		pending:  make([][]pendingQuery, n),
	}
}

// Solve 一次遍历回答整批查询，答案顺序与提交顺序一致。
// 批次中任一节点越界时整批失败，不产生部分答案。
func (o *OfflineLCA) Solve(queries []Query) ([]int, error) {
	for _, q := range queries {
		if err := o.tree.check(q.U, q.V); err != nil {
			return nil, err
		}
	}

	o.reset()
	answers := make([]int, len(queries))
	for i, q := range queries {
		answers[i] = -1
		o.pending[q.U] = append(o.pending[q.U], pendingQuery{partner: q.V, index: i})
		o.pending[q.V] = append(o.pending[q.V], pendingQuery{partner: q.U, index: i})
	}

	o.run(answers)
	return answers, nil
}

func (o *OfflineLCA) reset() {
	o.uf.Reset()
	for i := range o.ancestor {
		o.ancestor[i] = i
		o.visited[i] = false
		o.pending[i] = o.pending[i][:0]
	}
}

// run 以显式栈模拟递归：节点状态为 未访问 -> 处理中 -> 已完成。
func (o *OfflineLCA) run(answers []int) {
	type frame struct {
		v, next int
	}
	t := o.tree
	stack := []frame{{v: t.root}}
	ops := 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		v := top.v
		children := t.children[v]

		if top.next < len(children) {
			c := children[top.next]
			top.next++
			stack = append(stack, frame{v: c})
			continue
		}

		// v 的所有子树均已处理，v 完成。
		stack = stack[:len(stack)-1]
		o.visited[v] = true
		for _, q := range o.pending[v] {
			ops++
			if answers[q.index] == -1 && o.visited[q.partner] {
				answers[q.index] = o.ancestor[o.uf.Find(q.partner)]
			}
		}

		if len(stack) > 0 {
			p := stack[len(stack)-1].v
			o.uf.Union(p, v)
			o.ancestor[o.uf.Find(p)] = p
			ops++
		}
	}

	o.stats.addBuild(t.NodeCount())
	o.stats.query.Add(int64(ops))
	o.stats.queries.Add(int64(len(answers)))
}

// Stats 返回累计的操作计数。
func (o *OfflineLCA) Stats() Stats {
	return o.stats.snapshot()
}
