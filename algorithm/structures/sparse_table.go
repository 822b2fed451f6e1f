package structures

import "github.com/wyfcoding/treelca/xerrors"

// SparseTable 稀疏表，用于静态数组上的区间最小值查询 (RMQ)。
// 预处理 O(N log N)，查询 O(1)。查询返回最小值所在的下标，值相同时取更靠左的下标。
// 构建完成后只读，可被多个读者共享。
type SparseTable struct {
	data  []int
	table [][]int // table[k][i] 为区间 [i, i+2^k) 内最小值的下标。
	log   []int   // log[i] = floor(log2(i))。
}

// NewSparseTable 基于 data 的副本构建稀疏表。
func NewSparseTable(data []int) *SparseTable {
	n := len(data)
	st := &SparseTable{
		data: append([]int(nil), data...),
		log:  make([]int, n+1),
	}
	if n == 0 {
		return st
	}

	for i := 2; i <= n; i++ {
		st.log[i] = st.log[i/2] + 1
	}

	levels := st.log[n] + 1
	st.table = make([][]int, levels)
	st.table[0] = make([]int, n)
	for i := range n {
		st.table[0][i] = i
	}

	// 每一层由上一层的两个相邻半块合并而来。
	for k := 1; k < levels; k++ {
		half := 1 << (k - 1)
		width := n - (1 << k) + 1
		row := make([]int, width)
		prev := st.table[k-1]
		for i := range width {
			row[i] = st.better(prev[i], prev[i+half])
		}
		st.table[k] = row
	}

	return st
}

// better 返回值更小的下标；相等时保留左侧下标。
func (st *SparseTable) better(a, b int) int {
	if st.data[b] < st.data[a] {
		return b
	}
	return a
}

// Cells 返回预处理时计算的表项总数。
func (st *SparseTable) Cells() int {
	total := 0
	for _, row := range st.table {
		total += len(row)
	}
	return total
}

// Query 返回闭区间 [l, r] 内最小值的下标。
func (st *SparseTable) Query(l, r int) (int, error) {
	if l < 0 || r >= len(st.data) || l > r {
		return -1, xerrors.InvalidRange(l, r, len(st.data))
	}
	return st.MinIndex(l, r), nil
}

// MinIndex 是 Query 的无校验版本，调用方保证 0 <= l <= r < len(data)。
// 区间被拆成两个可能重叠的 2^k 长度块，最小值运算幂等，重叠不影响结果。
func (st *SparseTable) MinIndex(l, r int) int {
	k := st.log[r-l+1]
	return st.better(st.table[k][l], st.table[k][r-(1<<k)+1])
}
