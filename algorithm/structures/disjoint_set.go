package structures

// DisjointSet 固定大小的并查集，元素为 [0, n) 的整数。
// Find 使用迭代式路径压缩，Union 按集合大小合并。
// Find 会修改内部结构，因此不能被并发调用。
type DisjointSet struct {
	parent []int
	size   []int
}

// NewDisjointSet 创建 n 个单元素集合。
func NewDisjointSet(n int) *DisjointSet {
	d := &DisjointSet{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	d.Reset()
	return d
}

// Reset 将所有元素恢复为各自独立的集合。
func (d *DisjointSet) Reset() {
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
}

// Find 返回 x 所在集合的代表元，并把路径上的节点直接挂到代表元下。
func (d *DisjointSet) Find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}
	return root
}

// Union 合并 a 与 b 所在的集合，已在同一集合时返回 false。
func (d *DisjointSet) Union(a, b int) bool {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return false
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
	return true
}
