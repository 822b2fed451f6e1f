package graph

// NaiveLCA 逐级向上跳父节点的基线实现，单次查询 O(h)。
// 仅作为其它策略的正确性对照，不适用于高树上的生产查询。
type NaiveLCA struct {
	tree  *Tree
	stats opCounter
}

// NewNaive 创建基线查询器，无预处理。
func NewNaive(t *Tree) *NaiveLCA {
	return &NaiveLCA{tree: t}
}

// LCA 先把较深的节点提到同一深度，再同步上跳直到相遇。
func (n *NaiveLCA) LCA(u, v int) (int, error) {
	t := n.tree
	if err := t.check(u, v); err != nil {
		return -1, err
	}

	ops := 0
	for t.depth[u] > t.depth[v] {
		u = t.parent[u]
		ops++
	}
	for t.depth[v] > t.depth[u] {
		v = t.parent[v]
		ops++
	}
	for u != v {
		u, v = t.parent[u], t.parent[v]
		ops++
	}

	n.stats.addQuery(ops)
	return u, nil
}

// Strategy 实现 StaticLCA。
func (n *NaiveLCA) Strategy() Strategy {
	return StrategyNaive
}

// Stats 实现 StaticLCA。
func (n *NaiveLCA) Stats() Stats {
	return n.stats.snapshot()
}
