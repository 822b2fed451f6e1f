package graph

import "github.com/wyfcoding/treelca/xerrors"

// LinkCutTree 基于伸展树的动态森林，支持均摊 O(log N) 的 link、cut、换根与 LCA 查询。
//
// 每个节点同时属于一棵辅助伸展树，辅助树的中序序列是表示树中一条自上而下的偏好路径。
// parent 既可能是辅助树中的父节点，也可能是 "路径父指针"（父节点的左右孩子都不是它）。
// 即使是查询操作也会重构内部结构，因此不能被并发使用。
type LinkCutTree struct {
	parent []int
	left   []int
	right  []int
	flip   []bool // 待下推的翻转标记
}

// NewLinkCutTree 创建由 n 个孤立节点组成的森林。
func NewLinkCutTree(n int) *LinkCutTree {
	lct := &LinkCutTree{
		parent: make([]int, n),
		left:   make([]int, n),
		right:  make([]int, n),
		flip:   make([]bool, n),
	}
	for i := range n {
		lct.parent[i] = -1
		lct.left[i] = -1
		lct.right[i] = -1
	}
	return lct
}

// NodeCount 返回节点数。
func (lct *LinkCutTree) NodeCount() int {
	return len(lct.parent)
}

func (lct *LinkCutTree) check(nodes ...int) error {
	for _, v := range nodes {
		if v < 0 || v >= len(lct.parent) {
			return xerrors.OutOfRangeNode(v, len(lct.parent))
		}
	}
	return nil
}

// isRoot 判断 x 是否是所在辅助树的根。
func (lct *LinkCutTree) isRoot(x int) bool {
	p := lct.parent[x]
	return p == -1 || (lct.left[p] != x && lct.right[p] != x)
}

// push 下推翻转标记：交换左右孩子并把标记传给孩子。
func (lct *LinkCutTree) push(x int) {
	if !lct.flip[x] {
		return
	}
	lct.flip[x] = false
	lct.left[x], lct.right[x] = lct.right[x], lct.left[x]
	if l := lct.left[x]; l != -1 {
		lct.flip[l] = !lct.flip[l]
	}
	if r := lct.right[x]; r != -1 {
		lct.flip[r] = !lct.flip[r]
	}
}

// rotate 把 x 旋转到其父节点的位置，调用前 x 与父节点的标记必须已下推。
func (lct *LinkCutTree) rotate(x int) {
	p := lct.parent[x]
	g := lct.parent[p]

	if !lct.isRoot(p) {
		if lct.left[g] == p {
			lct.left[g] = x
		} else {
			lct.right[g] = x
		}
	}
	lct.parent[x] = g

	if lct.left[p] == x {
		b := lct.right[x]
		lct.left[p] = b
		if b != -1 {
			lct.parent[b] = p
		}
		lct.right[x] = p
	} else {
		b := lct.left[x]
		lct.right[p] = b
		if b != -1 {
			lct.parent[b] = p
		}
		lct.left[x] = p
	}
	lct.parent[p] = x
}

// splay 把 x 伸展到所在辅助树的根。
func (lct *LinkCutTree) splay(x int) {
	// 先自顶向下下推整条辅助树路径上的标记，之后的旋转才能读到正确的左右孩子。
	path := []int{x}
	for y := x; !lct.isRoot(y); y = lct.parent[y] {
		path = append(path, lct.parent[y])
	}
	for i := len(path) - 1; i >= 0; i-- {
		lct.push(path[i])
	}

	for !lct.isRoot(x) {
		p := lct.parent[x]
		if !lct.isRoot(p) {
			g := lct.parent[p]
			if (lct.left[g] == p) == (lct.left[p] == x) {
				lct.rotate(p) // zig-zig
			} else {
				lct.rotate(x) // zig-zag
			}
		}
		lct.rotate(x)
	}
}

// access 使根到 x 的路径成为偏好路径，结束时 x 是辅助树的根且没有右孩子。
// 返回最后一次跳转汇入根路径的节点；紧跟在 access(u) 之后调用 access(v) 时即为 LCA(u, v)。
func (lct *LinkCutTree) access(x int) int {
	last := -1
	for y := x; y != -1; y = lct.parent[y] {
		lct.splay(y)
		lct.right[y] = last
		last = y
	}
	lct.splay(x)
	return last
}

// findRoot 返回 x 所在表示树的根。
func (lct *LinkCutTree) findRoot(x int) int {
	lct.access(x)
	r := x
	lct.push(r)
	for lct.left[r] != -1 {
		r = lct.left[r]
		lct.push(r)
	}
	lct.splay(r)
	return r
}

// makeRoot 把 x 变为表示树的根：打通根到 x 的路径后翻转整条路径。
func (lct *LinkCutTree) makeRoot(x int) {
	lct.access(x)
	lct.flip[x] = !lct.flip[x]
}

// MakeRoot 把 x 设为所在树的根，连续调用两次与调用一次等价。
func (lct *LinkCutTree) MakeRoot(x int) error {
	if err := lct.check(x); err != nil {
		return err
	}
	lct.makeRoot(x)
	return nil
}

// Link 把 x 所在的树挂到 y 下：x 先成为其所在树的根，然后以 y 为父节点。
// x 与 y 已在同一棵树中时返回 ErrPreconditionViolation，森林保持不变。
func (lct *LinkCutTree) Link(x, y int) error {
	if err := lct.check(x, y); err != nil {
		return err
	}
	if x == y {
		return xerrors.PreconditionViolation("cannot link node %d to itself", x)
	}
	if lct.findRoot(x) == lct.findRoot(y) {
		return xerrors.PreconditionViolation("nodes %d and %d are already in the same tree", x, y)
	}
	lct.makeRoot(x)
	lct.parent[x] = y
	return nil
}

// Cut 断开 x 与其在表示树中的父节点。x 已是根时返回 ErrPreconditionViolation。
func (lct *LinkCutTree) Cut(x int) error {
	if err := lct.check(x); err != nil {
		return err
	}
	lct.access(x)
	l := lct.left[x]
	if l == -1 {
		return xerrors.PreconditionViolation("node %d is a root and has no parent to cut", x)
	}
	lct.parent[l] = -1
	lct.left[x] = -1
	return nil
}

// LCA 返回 x 与 y 在当前根下的最近公共祖先；不在同一棵树时第二个返回值为 false。
func (lct *LinkCutTree) LCA(x, y int) (int, bool, error) {
	if err := lct.check(x, y); err != nil {
		return -1, false, err
	}
	if x == y {
		return x, true, nil
	}
	if lct.findRoot(x) != lct.findRoot(y) {
		return -1, false, nil
	}
	lct.access(x)
	return lct.access(y), true, nil
}

// FindRoot 返回 x 所在树的当前根。
func (lct *LinkCutTree) FindRoot(x int) (int, error) {
	if err := lct.check(x); err != nil {
		return -1, err
	}
	return lct.findRoot(x), nil
}

// Connected 判断 x 与 y 是否在同一棵树中。
func (lct *LinkCutTree) Connected(x, y int) (bool, error) {
	if err := lct.check(x, y); err != nil {
		return false, err
	}
	return lct.findRoot(x) == lct.findRoot(y), nil
}
