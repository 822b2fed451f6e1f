// Package graph 提供有根树模型及多种最近公共祖先 (LCA) 查询算法。
//
// 所有结构均采用 "数组 + 整数下标" 的表示：节点编号为 [0, n) 的稠密整数，
// 父子关系、辅助树指针都只是下标，-1 表示不存在。所有遍历都使用显式栈或队列，
// 退化成长链的树也不会导致调用栈溢出。
package graph

import (
	"slices"

	"github.com/wyfcoding/treelca/xerrors"
)

// Edge 表示一条从父节点指向子节点的有向边。
type Edge struct {
	Parent int
	Child  int
}

// Tree 不可变的有根树。构建完成后只读，可被多个读者共享。
type Tree struct {
	parent   []int   // parent[v] 为 v 的父节点，根为 -1
	depth    []int   // 根深度为 0
	children [][]int // 有序的子节点列表，顺序决定欧拉序
	order    []int   // BFS 序，父节点总在子节点之前
	root     int
}

// BuildFromParents 根据父节点数组建树，parents[root] 必须为 -1 且只有根为 -1。
// 子节点顺序按编号递增。
func BuildFromParents(root int, parents []int) (*Tree, error) {
	n := len(parents)
	if n == 0 {
		return nil, xerrors.InvalidTree("tree must contain at least one node")
	}
	if root < 0 || root >= n {
		return nil, xerrors.InvalidTree("root %d not in [0, %d)", root, n)
	}

	children := make([][]int, n)
	for v, p := range parents {
		switch {
		case v == root:
			if p != -1 {
				return nil, xerrors.InvalidTree("root %d must not have a parent, got %d", root, p)
			}
		case p == -1:
			return nil, xerrors.InvalidTree("multiple root candidates: %d and %d", root, v)
		case p < 0 || p >= n:
			return nil, xerrors.InvalidTree("parent %d of node %d not in [0, %d)", p, v, n)
		case p == v:
			return nil, xerrors.InvalidTree("node %d is its own parent", v)
		default:
			children[p] = append(children[p], v)
		}
	}

	return newTree(root, slices.Clone(parents), children)
}

// BuildFromEdges 根据有向边列表建树，子节点顺序沿用边的输入顺序。
func BuildFromEdges(n, root int, edges []Edge) (*Tree, error) {
	if n <= 0 {
		return nil, xerrors.InvalidTree("tree must contain at least one node")
	}
	if root < 0 || root >= n {
		return nil, xerrors.InvalidTree("root %d not in [0, %d)", root, n)
	}
	if len(edges) != n-1 {
		return nil, xerrors.InvalidTree("a tree with %d nodes needs %d edges, got %d", n, n-1, len(edges))
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	children := make([][]int, n)

	for _, e := range edges {
		if e.Parent < 0 || e.Parent >= n || e.Child < 0 || e.Child >= n {
			return nil, xerrors.InvalidTree("edge %d->%d references a node outside [0, %d)", e.Parent, e.Child, n)
		}
		if e.Parent == e.Child {
			return nil, xerrors.InvalidTree("self loop on node %d", e.Child)
		}
		if e.Child == root {
			return nil, xerrors.InvalidTree("root %d must not have a parent, got %d", root, e.Parent)
		}
		if parent[e.Child] != -1 {
			return nil, xerrors.InvalidTree("node %d has two parents: %d and %d", e.Child, parent[e.Child], e.Parent)
		}
		parent[e.Child] = e.Parent
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	// n-1 条边且每个子节点只有一个父节点，因此除根外每个节点都恰有一个父节点。
	return newTree(root, parent, children)
}

// BuildFromAdjacency 根据子节点邻接表建树，adj[v] 列出 v 的全部子节点。
func BuildFromAdjacency(root int, adj [][]int) (*Tree, error) {
	edges := make([]Edge, 0, len(adj))
	for p, cs := range adj {
		for _, c := range cs {
			edges = append(edges, Edge{Parent: p, Child: c})
		}
	}
	return BuildFromEdges(len(adj), root, edges)
}

// newTree 从根做一次 BFS 计算深度，并检测环与不连通。
func newTree(root int, parent []int, children [][]int) (*Tree, error) {
	n := len(parent)
	depth := make([]int, n)
	order := make([]int, 0, n)
	seen := make([]bool, n)

	seen[root] = true
	order = append(order, root)
	for head := 0; head < len(order); head++ {
		v := order[head]
		for _, c := range children[v] {
			if seen[c] {
				return nil, xerrors.InvalidTree("cycle detected at node %d", c)
			}
			seen[c] = true
			depth[c] = depth[v] + 1
			order = append(order, c)
		}
	}

	if len(order) != n {
		for v, ok := range seen {
			if !ok {
				// 每个非根节点都有父节点却无法从根到达，说明它挂在一个环上。
				return nil, xerrors.InvalidTree("node %d is unreachable from root %d (cycle or disconnected component)", v, root)
			}
		}
	}

	return &Tree{
		parent:   parent,
		depth:    depth,
		children: children,
		order:    order,
		root:     root,
	}, nil
}

// NodeCount 返回节点数。
func (t *Tree) NodeCount() int {
	return len(t.parent)
}

// Root 返回根节点。
func (t *Tree) Root() int {
	return t.root
}

// Contains 判断 v 是否是合法节点编号。
func (t *Tree) Contains(v int) bool {
	return v >= 0 && v < len(t.parent)
}

// Parent 返回 v 的父节点，根或越界时第二个返回值为 false。
func (t *Tree) Parent(v int) (int, bool) {
	if !t.Contains(v) || t.parent[v] == -1 {
		return -1, false
	}
	return t.parent[v], true
}

// Depth 返回 v 的深度，越界时返回 -1。
func (t *Tree) Depth(v int) int {
	if !t.Contains(v) {
		return -1
	}
	return t.depth[v]
}

// Children 返回 v 的子节点副本。
func (t *Tree) Children(v int) []int {
	if !t.Contains(v) {
		return nil
	}
	return slices.Clone(t.children[v])
}

// Height 返回树高，即最大深度。
func (t *Tree) Height() int {
	// BFS 序的最后一个节点深度最大。
	return t.depth[t.order[len(t.order)-1]]
}

// IsAncestor 判断 u 是否是 v 的祖先（节点是自身的祖先），O(h)。
func (t *Tree) IsAncestor(u, v int) (bool, error) {
	if err := t.check(u, v); err != nil {
		return false, err
	}
	for t.depth[v] > t.depth[u] {
		v = t.parent[v]
	}
	return u == v, nil
}

// check 校验查询节点编号。
func (t *Tree) check(nodes ...int) error {
	for _, v := range nodes {
		if !t.Contains(v) {
			return xerrors.OutOfRangeNode(v, len(t.parent))
		}
	}
	return nil
}
