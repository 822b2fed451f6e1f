package graph

import "math/bits"

// BinaryLiftingLCA 实现了基于倍增（Binary Lifting）算法的最近公共祖先查询。
// 预处理复杂度 O(N log N)，单次查询复杂度 O(log N)。
type BinaryLiftingLCA struct {
	tree  *Tree
	up    []int // 扁平化数组: up[v*logN+k] 表示节点 v 的第 2^k 个祖先，不存在时为根自身。
	logN  int
	stats opCounter
}

// NewBinaryLifting 构造一个新的倍增 LCA 查询实例。
func NewBinaryLifting(t *Tree) *BinaryLiftingLCA {
	n := t.NodeCount()

	// 计算最大跳数的对数，至少保留一层父指针。
	logN := max(bits.Len(uint(n)), 1)

	lca := &BinaryLiftingLCA{
		tree: t,
		up:   make([]int, n*logN),
		logN: logN,
	}

	// 第 0 层是父节点；根指向自身，避免出现 -1 下标。
	for v := range n {
		p := t.parent[v]
		if p == -1 {
			p = v
		}
		lca.up[v*logN] = p
	}

	// 构建倍增表核心逻辑: up[k][v] = up[k-1][up[k-1][v]]。
	for k := 1; k < logN; k++ {
		for v := range n {
			mid := lca.up[v*logN+k-1]
			lca.up[v*logN+k] = lca.up[mid*logN+k-1]
		}
	}

	lca.stats.addBuild(n * logN)
	return lca
}

// LCA 查询两个节点的最近公共祖先。
func (lca *BinaryLiftingLCA) LCA(u, v int) (int, error) {
	if err := lca.tree.check(u, v); err != nil {
		return -1, err
	}

	depth := lca.tree.depth
	if depth[u] < depth[v] {
		u, v = v, u
	}

	ops := 0

	// 1. 将 u 提升到与 v 同一深度。k 必须严格递减，每次取最大的安全步长。
	for k := lca.logN - 1; k >= 0; k-- {
		ops++
		if depth[u]-(1<<k) >= depth[v] {
			u = lca.up[u*lca.logN+k]
		}
	}

	if u == v {
		lca.stats.addQuery(ops)
		return u, nil
	}

	// 2. 同时提升 u 和 v，直到它们的父节点相同。
	for k := lca.logN - 1; k >= 0; k-- {
		ops++
		idxU := u*lca.logN + k
		idxV := v*lca.logN + k
		if lca.up[idxU] != lca.up[idxV] {
			u = lca.up[idxU]
			v = lca.up[idxV]
		}
	}

	lca.stats.addQuery(ops)
	return lca.up[u*lca.logN], nil
}

// KthAncestor 返回 v 的第 k 个祖先，k 超过深度时第二个返回值为 false。
func (lca *BinaryLiftingLCA) KthAncestor(v, k int) (int, bool) {
	if !lca.tree.Contains(v) || k < 0 || k > lca.tree.depth[v] {
		return -1, false
	}
	for i := 0; k > 0; i++ {
		if k&1 == 1 {
			v = lca.up[v*lca.logN+i]
		}
		k >>= 1
	}
	return v, true
}

// Distance 计算两个节点之间的距离（边数）。
func (lca *BinaryLiftingLCA) Distance(u, v int) (int, error) {
	w, err := lca.LCA(u, v)
	if err != nil {
		return 0, err
	}
	depth := lca.tree.depth
	return depth[u] + depth[v] - 2*depth[w], nil
}

// Strategy 实现 StaticLCA。
func (lca *BinaryLiftingLCA) Strategy() Strategy {
	return StrategyBinaryLifting
}

// Stats 实现 StaticLCA。
func (lca *BinaryLiftingLCA) Stats() Stats {
	return lca.stats.snapshot()
}
