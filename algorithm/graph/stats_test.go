package graph

import (
	"math"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 复杂度通过操作计数验证，而不是墙钟时间。
func TestOperationCountsScale(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const queries = 2000

	for _, exp := range []int{8, 10, 12, 14} {
		n := 1 << exp
		nlogn := float64(n) * float64(exp)
		tree := randomTree(t, rng, n)
		deep := pathTree(t, n)

		for _, tr := range []*Tree{tree, deep} {
			bl := NewBinaryLifting(tr)
			et := NewEulerTour(tr)
			hl := NewHeavyLight(tr)

			for range queries {
				u, v := rng.IntN(n), rng.IntN(n)
				_, err := bl.LCA(u, v)
				require.NoError(t, err)
				_, err = et.LCA(u, v)
				require.NoError(t, err)
				_, err = hl.LCA(u, v)
				require.NoError(t, err)
			}

			// 倍增：预处理 Θ(n log n)，单次查询至多 2·⌈log n⌉ 次迭代。
			blStats := bl.Stats()
			assert.Equal(t, int64(n*bits.Len(uint(n))), blStats.BuildOps)
			ratio := float64(blStats.BuildOps) / nlogn
			assert.True(t, ratio >= 1 && ratio <= 2, "binary lifting build ratio %.2f at n=%d", ratio, n)
			assert.Equal(t, int64(queries), blStats.Queries)
			assert.LessOrEqual(t, blStats.QueryOps, int64(queries*2*bits.Len(uint(n))))

			// 欧拉序：预处理 Θ(n log n)，单次查询常数。
			etStats := et.Stats()
			ratio = float64(etStats.BuildOps) / nlogn
			assert.True(t, ratio >= 1 && ratio <= 4, "euler tour build ratio %.2f at n=%d", ratio, n)
			assert.Equal(t, int64(queries), etStats.QueryOps)

			// 轻重链剖分：预处理线性，单次查询跳链次数不超过 2·log n。
			hlStats := hl.Stats()
			assert.Equal(t, int64(2*n), hlStats.BuildOps)
			assert.LessOrEqual(t, float64(hlStats.QueryOps)/queries, 2*math.Log2(float64(n)))
		}
	}
}

func TestNaiveQueryCostIsLinearInHeight(t *testing.T) {
	const n = 4096
	tree := pathTree(t, n)
	naive := NewNaive(tree)

	_, err := naive.LCA(n-1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(n-1), naive.Stats().QueryOps)

	bl := NewBinaryLifting(tree)
	_, err = bl.LCA(n-1, 0)
	require.NoError(t, err)
	assert.Less(t, bl.Stats().QueryOps, int64(2*bits.Len(n)))
}

func TestOfflineStatsCountBatch(t *testing.T) {
	tree := sampleTree(t)
	solver := NewOfflineLCA(tree)
	_, err := solver.Solve([]Query{{3, 4}, {3, 5}})
	require.NoError(t, err)

	s := solver.Stats()
	assert.Equal(t, int64(2), s.Queries)
	assert.Equal(t, int64(tree.NodeCount()), s.BuildOps)
	assert.Positive(t, s.QueryOps)
}
