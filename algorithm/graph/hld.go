package graph

// HeavyLightLCA 基于轻重链剖分（Heavy-Light Decomposition）的 LCA 查询。
// 预处理 O(N)，单次查询 O(log N)：任意根到节点的路径最多经过 O(log N) 条轻边。
//
// 位置数组满足：每条重链占据连续的一段位置，子树 v 占据 [pos[v], pos[v]+size[v])，
// 因此可以直接与线段树、树状数组配合做路径或子树查询。
type HeavyLightLCA struct {
	tree   *Tree
	size   []int // 子树大小
	heavy  []int // 重儿子，叶子为 -1
	head   []int // 所在重链的链头
	chain  []int // 重链编号，按链的创建顺序递增
	pos    []int // 剖分后的位置
	chains int
	stats  opCounter
}

// Segment 表示剖分位置上的闭区间 [From, To]，From <= To。
type Segment struct {
	From int
	To   int
}

// NewHeavyLight 两遍构建：自底向上求子树大小，再自顶向下分配链与位置。
func NewHeavyLight(t *Tree) *HeavyLightLCA {
	n := t.NodeCount()
	h := &HeavyLightLCA{
		tree:  t,
		size:  make([]int, n),
		heavy: make([]int, n),
		head:  make([]int, n),
		chain: make([]int, n),
		pos:   make([]int, n),
	}

	// 第一遍：逆 BFS 序保证子节点先于父节点完成。
	for i := n - 1; i >= 0; i-- {
		v := t.order[i]
		h.size[v] = 1
		h.heavy[v] = -1
		best := 0
		for _, c := range t.children[v] {
			h.size[v] += h.size[c]
			// 严格大于：大小相同时保留先出现的子节点。
			if h.size[c] > best {
				best = h.size[c]
				h.heavy[v] = c
			}
		}
	}

	// 第二遍：重儿子最后入栈、最先出栈，使重链位置连续。
	stack := []int{t.root}
	h.head[t.root] = t.root
	next := 0
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if h.head[v] == v {
			h.chain[v] = h.chains
			h.chains++
		} else {
			h.chain[v] = h.chain[h.head[v]]
		}
		h.pos[v] = next
		next++

		children := t.children[v]
		for i := len(children) - 1; i >= 0; i-- {
			if c := children[i]; c != h.heavy[v] {
				h.head[c] = c
				stack = append(stack, c)
			}
		}
		if c := h.heavy[v]; c != -1 {
			h.head[c] = h.head[v]
			stack = append(stack, c)
		}
	}

	h.stats.addBuild(2 * n)
	return h
}

// LCA 两个节点不在同一条链上时，把链头更深的一方跳到链头的父节点；
// 到达同一条链后，较浅的节点即为答案。
func (h *HeavyLightLCA) LCA(u, v int) (int, error) {
	if err := h.tree.check(u, v); err != nil {
		return -1, err
	}

	depth, parent := h.tree.depth, h.tree.parent
	ops := 0
	for h.head[u] != h.head[v] {
		ops++
		if depth[h.head[u]] < depth[h.head[v]] {
			u, v = v, u
		}
		u = parent[h.head[u]]
	}
	h.stats.addQuery(ops)

	if depth[u] < depth[v] {
		return u, nil
	}
	return v, nil
}

// PathSegments 返回覆盖 u 到 v 路径上全部节点的位置区间。
// 区间按跳链顺序给出，彼此不重叠，总长度为 dist(u, v)+1。
func (h *HeavyLightLCA) PathSegments(u, v int) ([]Segment, error) {
	if err := h.tree.check(u, v); err != nil {
		return nil, err
	}

	depth, parent := h.tree.depth, h.tree.parent
	var segs []Segment
	for h.head[u] != h.head[v] {
		if depth[h.head[u]] < depth[h.head[v]] {
			u, v = v, u
		}
		segs = append(segs, Segment{From: h.pos[h.head[u]], To: h.pos[u]})
		u = parent[h.head[u]]
	}

	lo, hi := h.pos[u], h.pos[v]
	if lo > hi {
		lo, hi = hi, lo
	}
	return append(segs, Segment{From: lo, To: hi}), nil
}

// SubtreeRange 返回子树 v 在剖分位置上的闭区间。
func (h *HeavyLightLCA) SubtreeRange(v int) (Segment, error) {
	if err := h.tree.check(v); err != nil {
		return Segment{}, err
	}
	return Segment{From: h.pos[v], To: h.pos[v] + h.size[v] - 1}, nil
}

// Head 返回 v 所在重链的链头。
func (h *HeavyLightLCA) Head(v int) int { return h.head[v] }

// Chain 返回 v 所在重链的编号。
func (h *HeavyLightLCA) Chain(v int) int { return h.chain[v] }

// Pos 返回 v 的剖分位置。
func (h *HeavyLightLCA) Pos(v int) int { return h.pos[v] }

// ChainCount 返回重链数量。
func (h *HeavyLightLCA) ChainCount() int { return h.chains }

// Strategy 实现 StaticLCA。
func (h *HeavyLightLCA) Strategy() Strategy {
	return StrategyHeavyLight
}

// Stats 实现 StaticLCA。
func (h *HeavyLightLCA) Stats() Stats {
	return h.stats.snapshot()
}
